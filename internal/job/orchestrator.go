package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"teamscout/internal/profile"
)

// Orchestrator owns the job lifecycle. It is the only writer of job
// records; callers interact through Submit, Get, and Cancel only.
type Orchestrator struct {
	pipeline *Pipeline
	store    Store
	results  ResultStore
	logger   *slog.Logger

	baseCtx context.Context
	wg      sync.WaitGroup

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewOrchestrator creates an orchestrator. baseCtx bounds every worker:
// when it is cancelled (process shutdown), in-flight jobs end cancelled.
func NewOrchestrator(baseCtx context.Context, pipeline *Pipeline, store Store, results ResultStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		pipeline: pipeline,
		store:    store,
		results:  results,
		logger:   logger,
		baseCtx:  baseCtx,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Submit creates a queued job and schedules the pipeline on its own
// worker goroutine, returning the job ID immediately.
func (o *Orchestrator) Submit(ctx context.Context, team string, season int, forceRefresh bool) (string, error) {
	if team == "" {
		return "", fmt.Errorf("team is required")
	}
	if season <= 0 {
		return "", fmt.Errorf("season must be positive")
	}

	now := time.Now().UTC()
	j := Job{
		ID:        uuid.NewString(),
		Team:      team,
		Season:    season,
		Status:    StatusQueued,
		Message:   "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.store.Create(ctx, j); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	runCtx, cancel := context.WithCancel(o.baseCtx)
	o.mu.Lock()
	o.cancels[j.ID] = cancel
	o.mu.Unlock()

	o.wg.Add(1)
	go o.run(runCtx, j.ID, team, season, forceRefresh)

	o.logger.Info("job submitted", "job_id", j.ID, "team", team, "season", season)
	return j.ID, nil
}

// Get returns an immutable snapshot of the job record. Never blocks on
// in-flight work.
func (o *Orchestrator) Get(ctx context.Context, id string) (Job, error) {
	return o.store.Get(ctx, id)
}

// Cancel requests cooperative cancellation. It returns immediately; the
// worker stops at its next stage boundary. Cancelling a terminal job is a
// no-op.
func (o *Orchestrator) Cancel(ctx context.Context, id string) error {
	j, err := o.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if j.Status.Terminal() {
		return nil
	}

	o.mu.Lock()
	cancel, ok := o.cancels[id]
	o.mu.Unlock()
	if ok {
		cancel()
	}
	o.logger.Info("job cancellation requested", "job_id", id)
	return nil
}

// Shutdown waits for in-flight workers to finish, up to ctx's deadline.
// Cancel baseCtx first to stop them cooperatively.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --------------------------------------------------------------------------
// Worker
// --------------------------------------------------------------------------

func (o *Orchestrator) run(ctx context.Context, id, team string, season int, forceRefresh bool) {
	defer o.wg.Done()
	defer func() {
		o.mu.Lock()
		delete(o.cancels, id)
		o.mu.Unlock()
	}()

	o.update(id, func(j *Job) {
		j.Status = StatusRunning
		j.Message = "starting generation"
	})

	obs := Observer{
		Progress: func(pct int, msg string) {
			o.update(id, func(j *Job) {
				if pct > j.Progress {
					j.Progress = pct
				}
				j.Message = msg
			})
		},
		Source: func(s profile.SourceStatus) {
			o.update(id, func(j *Job) {
				byName := make(map[string]profile.SourceStatus, len(j.SourceStatuses)+1)
				for _, existing := range j.SourceStatuses {
					byName[existing.Name] = existing
				}
				byName[s.Name] = s
				j.SourceStatuses = profile.OrderStatuses(byName)
			})
		},
	}

	start := time.Now()
	doc, err := o.pipeline.Run(ctx, team, season, forceRefresh, obs)

	switch {
	case err == nil:
		// Persist past shutdown-triggered cancellation of ctx.
		ref, saveErr := o.results.Save(context.WithoutCancel(ctx), doc)
		if saveErr != nil {
			o.terminate(id, StatusFailed, fmt.Sprintf("store profile: %v", saveErr))
			return
		}
		o.update(id, func(j *Job) {
			j.Status = StatusCompleted
			j.Progress = 100
			j.Message = "profile generated"
			j.ResultRef = ref
		})
		o.logger.Info("job completed", "job_id", id, "team", team, "season", season,
			"duration", time.Since(start).Round(time.Millisecond))

	case ctx.Err() != nil || errors.Is(err, ErrCancelled):
		o.terminate(id, StatusCancelled, "cancelled")
		o.logger.Info("job cancelled", "job_id", id, "team", team, "season", season)

	default:
		o.terminate(id, StatusFailed, err.Error())
		o.logger.Error("job failed", "job_id", id, "team", team, "season", season, "error", err)
	}
}

// terminate moves a job to a terminal state, leaving progress frozen.
func (o *Orchestrator) terminate(id string, status Status, message string) {
	o.update(id, func(j *Job) {
		j.Status = status
		j.Message = message
		if status == StatusFailed {
			j.Error = message
		}
	})
}

// update applies fn to the job record under the orchestrator's write lock,
// refusing transitions out of terminal states.
func (o *Orchestrator) update(id string, fn func(j *Job)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx := context.WithoutCancel(o.baseCtx)
	j, err := o.store.Get(ctx, id)
	if err != nil {
		o.logger.Error("job update read failed", "job_id", id, "error", err)
		return
	}
	if j.Status.Terminal() {
		return
	}

	prev := j.Status
	fn(&j)
	if j.Status != prev && !prev.validNext(j.Status) {
		o.logger.Error("invalid job transition dropped", "job_id", id, "from", prev, "to", j.Status)
		return
	}
	j.UpdatedAt = time.Now().UTC()

	if err := o.store.Update(ctx, j); err != nil {
		o.logger.Error("job update write failed", "job_id", id, "error", err)
	}
}
