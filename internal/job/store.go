package job

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"teamscout/internal/profile"
)

// ErrNotFound is returned for unknown job IDs.
var ErrNotFound = errors.New("job not found")

// ErrNoProfile is returned when no completed profile exists for a team season.
var ErrNoProfile = errors.New("profile not found")

// Store persists job records. Implementations synchronize internally so
// the orchestrator can swap in-memory for durable storage without change.
type Store interface {
	Create(ctx context.Context, j Job) error
	Get(ctx context.Context, id string) (Job, error)
	Update(ctx context.Context, j Job) error
}

// ResultStore persists completed profiles, resolved through resultRef.
type ResultStore interface {
	Save(ctx context.Context, p *profile.TeamProfile) (ref string, err error)
	Get(ctx context.Context, team string, season int) (*profile.TeamProfile, error)
}

// ResultRef is the canonical resultRef format for a team season.
func ResultRef(team string, season int) string {
	return fmt.Sprintf("profiles/%s/%d", team, season)
}

// --------------------------------------------------------------------------
// In-memory job store
// --------------------------------------------------------------------------

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (s *MemoryStore) Create(_ context.Context, j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[j.ID]; exists {
		return fmt.Errorf("job %s already exists", j.ID)
	}
	s.jobs[j.ID] = j.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return j.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[j.ID]; !ok {
		return ErrNotFound
	}
	s.jobs[j.ID] = j.Clone()
	return nil
}

// --------------------------------------------------------------------------
// In-memory result store
// --------------------------------------------------------------------------

// MemoryResultStore keeps completed profiles in process memory.
type MemoryResultStore struct {
	mu       sync.RWMutex
	profiles map[string]*profile.TeamProfile
}

// NewMemoryResultStore creates an empty in-memory result store.
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{profiles: make(map[string]*profile.TeamProfile)}
}

func (s *MemoryResultStore) Save(_ context.Context, p *profile.TeamProfile) (string, error) {
	ref := ResultRef(p.Team, p.Season)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[ref] = p
	return ref, nil
}

func (s *MemoryResultStore) Get(_ context.Context, team string, season int) (*profile.TeamProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[ResultRef(team, season)]
	if !ok {
		return nil, ErrNoProfile
	}
	return p, nil
}
