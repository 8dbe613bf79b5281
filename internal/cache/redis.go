package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"teamscout/internal/provider/cbb"
)

// RedisStore is a Redis-backed Store for deployments where the historical
// cache should survive restarts and be shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed cache and verifies connectivity.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		DB:         db,
		MaxRetries: 3,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }

// Get retrieves a cached player season.
func (s *RedisStore) Get(ctx context.Context, key Key) (cbb.PlayerSeason, bool, error) {
	raw, err := s.client.Get(ctx, key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return cbb.PlayerSeason{}, false, nil
	}
	if err != nil {
		return cbb.PlayerSeason{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var stats cbb.PlayerSeason
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return cbb.PlayerSeason{}, false, fmt.Errorf("decode cached entry %s: %w", key, err)
	}
	return stats, true, nil
}

// Put stores a player season without expiry. Historical seasons never
// change, so there is nothing to invalidate.
func (s *RedisStore) Put(ctx context.Context, key Key, stats cbb.PlayerSeason) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key.String(), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Stats returns cache statistics from the server.
func (s *RedisStore) Stats(ctx context.Context) (map[string]any, error) {
	size, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis dbsize: %w", err)
	}
	return map[string]any{
		"backend": "redis",
		"keys":    size,
	}, nil
}
