// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/scout.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Season registry
// --------------------------------------------------------------------------

// CurrentSeason is the default season year for generation requests.
// College basketball seasons are named by the year they end in.
const CurrentSeason = 2026

// PreviousSeasonDepth is how many prior seasons are summarized per player.
const PreviousSeasonDepth = 3

// --------------------------------------------------------------------------
// Backend selection
// --------------------------------------------------------------------------

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	JobStoreMemory   = "memory"
	JobStorePostgres = "postgres"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Primary stats provider
	CBBBaseURL           string
	CBBAPIKey            string
	CBBRequestsPerMinute int

	// Enrichment sources
	KenPomAPIKey        string
	KenPomBaseURL       string
	WikipediaBaseURL    string
	CoachArchiveBaseURL string
	NetRatingBaseURL    string
	AdapterTimeout      time.Duration

	// Job store
	JobStoreBackend string // memory, postgres
	DatabaseURL     string
	DBPoolMinConns  int
	DBPoolMaxConns  int
	DBPoolMaxLife   time.Duration

	// Historical cache
	CacheBackend  string // memory, redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting (inbound)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		CBBBaseURL:           envOr("CBB_API_BASE_URL", "https://api.collegebasketballdata.com"),
		CBBAPIKey:            envOr("CBB_API_KEY", ""),
		CBBRequestsPerMinute: envInt("CBB_REQUESTS_PER_MINUTE", 300),

		KenPomAPIKey:        envOr("KENPOM_API_KEY", ""),
		KenPomBaseURL:       envOr("KENPOM_BASE_URL", "https://api.kenpom.com"),
		WikipediaBaseURL:    envOr("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/api/rest_v1"),
		CoachArchiveBaseURL: envOr("COACH_ARCHIVE_BASE_URL", ""),
		NetRatingBaseURL:    envOr("NET_RATING_BASE_URL", ""),
		AdapterTimeout:      time.Duration(envInt("ADAPTER_TIMEOUT_SECONDS", 20)) * time.Second,

		JobStoreBackend: envOr("JOB_STORE_BACKEND", JobStoreMemory),
		DatabaseURL:     envOr("DATABASE_URL", ""),
		DBPoolMinConns:  envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns:  envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:   time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		CacheBackend:  envOr("CACHE_BACKEND", CacheBackendMemory),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}

	if cfg.JobStoreBackend == JobStorePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set when JOB_STORE_BACKEND=postgres")
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
