package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"teamscout/internal/profile"
)

// PGStore is the Postgres-backed job Store for deployments where job
// records must survive restarts. Statement names are registered by
// internal/db on every connection.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres job store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Create(ctx context.Context, j Job) error {
	statuses, err := json.Marshal(j.SourceStatuses)
	if err != nil {
		return fmt.Errorf("encode source statuses: %w", err)
	}
	_, err = s.pool.Exec(ctx, "job_create",
		j.ID, j.Team, j.Season, string(j.Status), j.Progress, j.Message,
		statuses, j.ResultRef, j.Error, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", j.ID, err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (Job, error) {
	var j Job
	var status string
	var statuses []byte
	err := s.pool.QueryRow(ctx, "job_get", id).Scan(
		&j.ID, &j.Team, &j.Season, &status, &j.Progress, &j.Message,
		&statuses, &j.ResultRef, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("select job %s: %w", id, err)
	}
	j.Status = Status(status)
	if len(statuses) > 0 {
		if err := json.Unmarshal(statuses, &j.SourceStatuses); err != nil {
			return Job{}, fmt.Errorf("decode source statuses for %s: %w", id, err)
		}
	}
	return j, nil
}

func (s *PGStore) Update(ctx context.Context, j Job) error {
	statuses, err := json.Marshal(j.SourceStatuses)
	if err != nil {
		return fmt.Errorf("encode source statuses: %w", err)
	}
	tag, err := s.pool.Exec(ctx, "job_update",
		j.ID, string(j.Status), j.Progress, j.Message,
		statuses, j.ResultRef, j.Error, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update job %s: %w", j.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PGResultStore persists completed profiles as JSONB documents.
type PGResultStore struct {
	pool *pgxpool.Pool
}

// NewPGResultStore creates a Postgres result store.
func NewPGResultStore(pool *pgxpool.Pool) *PGResultStore {
	return &PGResultStore{pool: pool}
}

func (s *PGResultStore) Save(ctx context.Context, p *profile.TeamProfile) (string, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	if _, err := s.pool.Exec(ctx, "profile_upsert", p.Team, p.Season, doc, p.GeneratedAt); err != nil {
		return "", fmt.Errorf("upsert profile %s/%d: %w", p.Team, p.Season, err)
	}
	return ResultRef(p.Team, p.Season), nil
}

func (s *PGResultStore) Get(ctx context.Context, team string, season int) (*profile.TeamProfile, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, "profile_get", team, season).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("select profile %s/%d: %w", team, season, err)
	}
	var p profile.TeamProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s/%d: %w", team, season, err)
	}
	return &p, nil
}
