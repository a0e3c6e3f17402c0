package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer so the implementation
// (Redis, in-memory for tests) can be swapped.
type Cache interface {
	// Get fetches a key and unmarshals it into dest.
	// Returns (false, nil) on a cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
