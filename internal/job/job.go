// Package job owns the background-job lifecycle for profile generation:
// the job record and its state machine, the pluggable job and result
// stores, the generation pipeline, and the orchestrator that ties them
// together behind submit/status/cancel.
package job

import (
	"time"

	"teamscout/internal/profile"
)

// Status is the job lifecycle state.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// validNext enumerates the forward-only transition edges.
func (s Status) validNext(next Status) bool {
	switch s {
	case StatusQueued:
		return next == StatusRunning || next == StatusCancelled || next == StatusFailed
	case StatusRunning:
		return next.Terminal()
	}
	return false
}

// Job is one generation run. The orchestrator is the only writer for the
// record's full lifetime; everyone else sees snapshots.
type Job struct {
	ID             string                 `json:"id"`
	Team           string                 `json:"team"`
	Season         int                    `json:"season"`
	Status         Status                 `json:"status"`
	Progress       int                    `json:"progress"`
	Message        string                 `json:"message,omitempty"`
	SourceStatuses []profile.SourceStatus `json:"sourceStatuses,omitempty"`
	ResultRef      string                 `json:"resultRef,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// Clone returns a deep copy safe to hand out as a snapshot.
func (j Job) Clone() Job {
	out := j
	if j.SourceStatuses != nil {
		out.SourceStatuses = make([]profile.SourceStatus, len(j.SourceStatuses))
		copy(out.SourceStatuses, j.SourceStatuses)
	}
	return out
}
