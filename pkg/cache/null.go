package cache

import (
	"context"
	"time"
)

// NullCache disables metadata caching: every lookup misses and every store
// is discarded, so each tag listing goes to the remote. The CLI selects it
// for --no-cache and falls back to it when the configured cache cannot be
// opened.
type NullCache struct{}

// NewNullCache creates a cache that never caches.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses, forcing a fresh remote fetch.
func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing; there is never anything to delete.
func (NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (NullCache) Close() error {
	return nil
}

var _ Cache = NullCache{}
