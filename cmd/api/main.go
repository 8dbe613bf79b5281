// Command api is the TeamScout profile generation API server.
//
// Usage:
//
//	teamscout-api
//	API_PORT=8080 teamscout-api

// @title TeamScout API
// @version 1.0.0
// @description Cancellable, pollable team scouting profile generation: primary provider data, enrichment sources, derived statistics.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"teamscout/internal/api"
	"teamscout/internal/cache"
	"teamscout/internal/config"
	"teamscout/internal/db"
	"teamscout/internal/enrich"
	"teamscout/internal/job"
	"teamscout/internal/provider/cbb"

	_ "teamscout/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Historical cache backend
	cacheStore, closeCache, err := buildCache(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()
	logger.Info("Historical cache initialized", "backend", cfg.CacheBackend)

	// Job and result stores
	var pool *db.Pool
	var jobStore job.Store
	var resultStore job.ResultStore
	if cfg.JobStoreBackend == config.JobStorePostgres {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		jobStore = job.NewPGStore(pool.Pool)
		resultStore = job.NewPGResultStore(pool.Pool)
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	} else {
		jobStore = job.NewMemoryStore()
		resultStore = job.NewMemoryResultStore()
	}

	// Pipeline and orchestrator
	client := cbb.NewClient(cfg.CBBBaseURL, cfg.CBBAPIKey, cfg.CBBRequestsPerMinute, logger)
	pipeline := &job.Pipeline{
		Primary:         client,
		Cache:           cacheStore,
		Adapters:        buildAdapters(cfg, logger),
		AdapterTimeout:  cfg.AdapterTimeout,
		PrevSeasonDepth: config.PreviousSeasonDepth,
		Logger:          logger,
	}
	orch := job.NewOrchestrator(ctx, pipeline, jobStore, resultStore, logger)

	// Create router
	router := api.NewRouter(orch, resultStore, cacheStore, pool, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting TeamScout API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout. Workers see the cancelled base
	// context and end their jobs as cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	if err := orch.Shutdown(shutdownCtx); err != nil {
		logger.Error("Worker shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// buildCache selects the historical cache backend from configuration.
func buildCache(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	if cfg.CacheBackend == config.CacheBackendRedis {
		store, err := cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return cache.NewMemoryStore(), func() {}, nil
}

// buildAdapters creates every enrichment adapter. Unconfigured sources
// stay registered and report skipped, keeping sourceStatuses complete.
func buildAdapters(cfg *config.Config, logger *slog.Logger) []enrich.Adapter {
	return []enrich.Adapter{
		enrich.NewKenPom(cfg.KenPomBaseURL, cfg.KenPomAPIKey, nil, logger),
		enrich.NewWikipedia(cfg.WikipediaBaseURL, nil, logger),
		enrich.NewCoachArchive(cfg.CoachArchiveBaseURL, nil, logger),
		enrich.NewNetRating(cfg.NetRatingBaseURL, nil, logger),
	}
}
