// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking. Used only when the Postgres
// job store is selected.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"teamscout/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the job and profile
// stores use. Prepared statements eliminate parse overhead on every write
// during a run, which updates the job record at each progress milestone.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Job store — matches schema.sql
		"job_create": `INSERT INTO jobs
			(id, team, season, status, progress, message, source_statuses, result_ref, error, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		"job_get": `SELECT id, team, season, status, progress, message, source_statuses, result_ref, error, created_at, updated_at
			FROM jobs WHERE id = $1`,
		"job_update": `UPDATE jobs
			SET status = $2, progress = $3, message = $4, source_statuses = $5,
			    result_ref = $6, error = $7, updated_at = $8
			WHERE id = $1`,

		// Profile store
		"profile_upsert": `INSERT INTO profiles (team, season, document, generated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (team, season)
			DO UPDATE SET document = EXCLUDED.document, generated_at = EXCLUDED.generated_at`,
		"profile_get": "SELECT document FROM profiles WHERE team = $1 AND season = $2",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
