// Package cache provides the remote-metadata cache used by the VCS backends.
//
// Backends consult a Cache before issuing network calls for remote metadata
// such as tag listings. The cache is a plain keyed byte store with per-entry
// TTL; callers own key construction and serialization. Implementations:
//   - FileCache: entries as JSON files under a directory (CLI default)
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled
//
// The cache is always injected explicitly; nothing in this module reaches
// for a process-global cache.
package cache

import (
	"context"
	"time"
)

// Cache is a keyed byte store with per-entry expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
