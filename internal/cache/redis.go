package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evalforge/evalforge/internal/pkg/database"
)

// RedisStore is a Store backed by a shared Redis instance.
type RedisStore struct {
	db  *database.RedisDB
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed cache with a per-entry TTL
func NewRedisStore(db *database.RedisDB, ttl time.Duration) *RedisStore {
	return &RedisStore{db: db, ttl: ttl}
}

// Get returns the cached value and whether the key was present
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.db.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

// Set stores a value under the key
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.db.Set(ctx, key, value, s.ttl); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Del(ctx, key); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
