package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process Store backed by an expiring LRU. Suitable for
// single-instance deployments; multi-instance deployments should use the
// Redis backend so invalidation reaches every replica.
type MemoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore creates a memory-backed cache with a maximum entry count
// and per-entry TTL.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
	}
}

// Get returns the cached value and whether the key was present
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := s.lru.Get(key)
	return value, ok, nil
}

// Set stores a value under the key
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.lru.Add(key, value)
	return nil
}

// Delete removes the key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}
