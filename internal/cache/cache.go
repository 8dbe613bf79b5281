// Package cache provides the historical player-season cache consulted
// before the primary provider is asked for prior-season stats. Historical
// seasons are immutable once finalized, so entries carry no expiry.
package cache

import (
	"context"
	"fmt"

	"teamscout/internal/provider/cbb"
)

// Key identifies one cached player season. Player names are normalized so
// "Tyler Smith" and "tyler smith" share an entry.
type Key struct {
	Player string
	Season int
}

// NewKey builds a normalized cache key.
func NewKey(player string, season int) Key {
	return Key{Player: cbb.NormalizeName(player), Season: season}
}

// String renders the key for string-keyed backends.
func (k Key) String() string {
	return fmt.Sprintf("histstats:%s:%d", k.Player, k.Season)
}

// Store is the pluggable cache backend. Concurrent reads and inserts of
// distinct keys must not block each other; same-key writes are idempotent
// (last write wins).
type Store interface {
	Get(ctx context.Context, key Key) (cbb.PlayerSeason, bool, error)
	Put(ctx context.Context, key Key, stats cbb.PlayerSeason) error
	Stats(ctx context.Context) (map[string]any, error)
}

// FetchFunc fetches a player season from the primary provider on cache miss.
type FetchFunc func(ctx context.Context) (cbb.PlayerSeason, error)

// ReadThrough returns the cached season for key, fetching and writing back
// on a miss. forceRefresh bypasses the lookup (not the write-back) for this
// one call.
func ReadThrough(ctx context.Context, store Store, key Key, forceRefresh bool, fetch FetchFunc) (cbb.PlayerSeason, error) {
	if !forceRefresh {
		if stats, ok, err := store.Get(ctx, key); err == nil && ok {
			return stats, nil
		}
	}

	stats, err := fetch(ctx)
	if err != nil {
		return cbb.PlayerSeason{}, err
	}
	if err := store.Put(ctx, key, stats); err != nil {
		// A write failure only costs a future refetch.
		return stats, nil
	}
	return stats, nil
}
