// Command scout is the TeamScout CLI.
//
// Usage:
//
//	teamscout generate --team "UCLA" --season 2026
//	teamscout generate --team "UCLA" --season 2026 --force-refresh -o ucla.json
//	teamscout teams --conference "Big Ten"
//	teamscout cache stats
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"teamscout/internal/cache"
	"teamscout/internal/config"
	"teamscout/internal/enrich"
	"teamscout/internal/job"
	"teamscout/internal/profile"
	"teamscout/internal/provider/cbb"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "teamscout",
		Short: "Team scouting profile generation CLI",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(teamsCmd())
	root.AddCommand(cacheCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// generate command
// --------------------------------------------------------------------------

func generateCmd() *cobra.Command {
	var (
		team         string
		season       int
		forceRefresh bool
		output       string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a team profile synchronously",
		RunE: func(cmd *cobra.Command, args []string) error {
			if team == "" {
				return fmt.Errorf("--team is required")
			}
			return runCLI(func(ctx context.Context, cfg *config.Config, cacheStore cache.Store) error {
				client := cbb.NewClient(cfg.CBBBaseURL, cfg.CBBAPIKey, cfg.CBBRequestsPerMinute, logger)
				pipeline := &job.Pipeline{
					Primary:         client,
					Cache:           cacheStore,
					Adapters:        buildAdapters(cfg),
					AdapterTimeout:  cfg.AdapterTimeout,
					PrevSeasonDepth: config.PreviousSeasonDepth,
					Logger:          logger,
				}

				start := time.Now()
				obs := job.Observer{
					Progress: func(pct int, msg string) {
						logger.Info("progress", "pct", pct, "step", msg)
					},
					Source: func(s profile.SourceStatus) {
						logger.Info("source resolved", "name", s.Name, "status", s.Status, "message", s.Message)
					},
				}
				doc, err := pipeline.Run(ctx, team, season, forceRefresh, obs)
				if err != nil {
					return fmt.Errorf("generate %s %d: %w", team, season, err)
				}
				logger.Info("profile generated",
					"team", team, "season", season,
					"players", doc.Metadata.PlayerCount,
					"api_calls", doc.Metadata.PrimaryAPICalls,
					"duration", time.Since(start).Round(time.Second))

				return writeProfile(doc, output)
			})
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Team name")
	cmd.Flags().IntVar(&season, "season", config.CurrentSeason, "Season year")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "Bypass the historical cache for this run")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func writeProfile(doc *profile.TeamProfile, output string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Info("profile written", "path", output)
	return nil
}

// --------------------------------------------------------------------------
// teams command
// --------------------------------------------------------------------------

func teamsCmd() *cobra.Command {
	var (
		conference string
		season     int
	)
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List teams known to the primary provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI(func(ctx context.Context, cfg *config.Config, _ cache.Store) error {
				client := cbb.NewClient(cfg.CBBBaseURL, cfg.CBBAPIKey, cfg.CBBRequestsPerMinute, logger)
				teams, err := client.GetTeams(ctx, conference, season)
				if err != nil {
					return fmt.Errorf("list teams: %w", err)
				}
				for _, t := range teams {
					fmt.Printf("%-32s %-24s %s\n", t.Team, t.Mascot, t.Conference)
				}
				logger.Info("teams listed", "count", len(teams), "season", season)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&conference, "conference", "", "Filter by conference")
	cmd.Flags().IntVar(&season, "season", config.CurrentSeason, "Season year")
	return cmd
}

// --------------------------------------------------------------------------
// cache command
// --------------------------------------------------------------------------

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the historical stats cache",
	}
	cmd.AddCommand(cacheStatsCmd())
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache backend statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI(func(ctx context.Context, cfg *config.Config, cacheStore cache.Store) error {
				stats, err := cacheStore.Stats(ctx)
				if err != nil {
					return fmt.Errorf("cache stats: %w", err)
				}
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runCLI handles config loading, cache construction, and context cancellation.
func runCLI(fn func(ctx context.Context, cfg *config.Config, cacheStore cache.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var cacheStore cache.Store
	if cfg.CacheBackend == config.CacheBackendRedis {
		store, err := cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer store.Close()
		cacheStore = store
	} else {
		cacheStore = cache.NewMemoryStore()
	}

	return fn(ctx, cfg, cacheStore)
}

func buildAdapters(cfg *config.Config) []enrich.Adapter {
	return []enrich.Adapter{
		enrich.NewKenPom(cfg.KenPomBaseURL, cfg.KenPomAPIKey, nil, logger),
		enrich.NewWikipedia(cfg.WikipediaBaseURL, nil, logger),
		enrich.NewCoachArchive(cfg.CoachArchiveBaseURL, nil, logger),
		enrich.NewNetRating(cfg.NetRatingBaseURL, nil, logger),
	}
}
