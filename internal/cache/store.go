// Package cache provides a TTL cache for stock data on top of a pluggable
// key-value store. Expiry is checked on read only; writes overwrite
// unconditionally and failures degrade to cache misses, never to errors
// visible to callers.
package cache

import (
	"context"
	"time"
)

// Store defines the key-value collaborator the cache is built on.
//
// Implementations can use in-memory storage, Redis, or a database.
// All methods must be thread-safe. Concurrent writers to the same key are
// resolved last-write-wins; there are no multi-key transactions.
type Store interface {
	// Get retrieves the raw value for a key.
	// The second return value is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the raw value for a key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Keys returns all keys currently in the store.
	Keys(ctx context.Context) ([]string, error)

	// DeleteMany removes the given keys. Missing keys are ignored.
	DeleteMany(ctx context.Context, keys []string) error
}

// Clock provides time operations, injectable for TTL tests.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
