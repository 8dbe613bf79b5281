package cache

import (
	"context"
	"hash/fnv"
	"sync"

	"teamscout/internal/provider/cbb"
)

const shardCount = 16

// MemoryStore is a sharded in-memory Store. Sharding keeps concurrent
// lookups and inserts of distinct keys off a single lock.
type MemoryStore struct {
	shards [shardCount]*shard
}

type shard struct {
	mu      sync.RWMutex
	entries map[Key]cbb.PlayerSeason
}

// NewMemoryStore creates an empty in-memory cache.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[Key]cbb.PlayerSeason)}
	}
	return s
}

func (s *MemoryStore) shardFor(key Key) *shard {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	return s.shards[h.Sum32()%shardCount]
}

// Get retrieves a cached player season.
func (s *MemoryStore) Get(_ context.Context, key Key) (cbb.PlayerSeason, bool, error) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	stats, ok := sh.entries[key]
	return stats, ok, nil
}

// Put stores a player season. Same-key writes replace wholesale.
func (s *MemoryStore) Put(_ context.Context, key Key, stats cbb.PlayerSeason) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.entries[key] = stats
	return nil
}

// Stats returns cache statistics.
func (s *MemoryStore) Stats(_ context.Context) (map[string]any, error) {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return map[string]any{
		"backend": "memory",
		"keys":    total,
		"shards":  shardCount,
	}, nil
}
