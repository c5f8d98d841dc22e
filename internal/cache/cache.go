// Package cache provides a read-through metadata cache with pluggable
// backends. Writes to the underlying stores invalidate cache entries
// synchronously, so readers never observe a stale row after a successful
// write.
package cache

import "context"

// Store is a minimal byte-oriented cache backend.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value under the key for the backend's configured TTL.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
