// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about downloads, external VCS client invocations, and
// cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDownloadHooks(&myDownloadHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Download().OnDownloadStart(ctx, provider, url)
//	// ... perform checkout ...
//	observability.Download().OnDownloadComplete(ctx, provider, url, revision, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Download Hooks
// =============================================================================

// DownloadHooks receives events from the download orchestrator.
type DownloadHooks interface {
	// OnDownloadStart records the beginning of a checkout.
	OnDownloadStart(ctx context.Context, provider, url string)

	// OnDownloadComplete records the end of a checkout, successful or not.
	OnDownloadComplete(ctx context.Context, provider, url, revision string, duration time.Duration, err error)
}

// =============================================================================
// Command Hooks
// =============================================================================

// CommandHooks receives events from external VCS client invocations.
type CommandHooks interface {
	// OnCommandStart records an external command about to run.
	OnCommandStart(ctx context.Context, name string, args []string)

	// OnCommandComplete records a finished command with its exit outcome.
	OnCommandComplete(ctx context.Context, name string, args []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDownloadHooks is a no-op implementation of DownloadHooks.
type NoopDownloadHooks struct{}

func (NoopDownloadHooks) OnDownloadStart(context.Context, string, string) {}
func (NoopDownloadHooks) OnDownloadComplete(context.Context, string, string, string, time.Duration, error) {
}

// NoopCommandHooks is a no-op implementation of CommandHooks.
type NoopCommandHooks struct{}

func (NoopCommandHooks) OnCommandStart(context.Context, string, []string) {}
func (NoopCommandHooks) OnCommandComplete(context.Context, string, []string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)       {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)      {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)  {}

// =============================================================================
// Registration
// =============================================================================

var (
	mu            sync.RWMutex
	downloadHooks DownloadHooks = NoopDownloadHooks{}
	commandHooks  CommandHooks  = NoopCommandHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
)

// SetDownloadHooks registers download hooks. Pass nil to restore the no-op.
func SetDownloadHooks(h DownloadHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopDownloadHooks{}
	}
	downloadHooks = h
}

// SetCommandHooks registers command hooks. Pass nil to restore the no-op.
func SetCommandHooks(h CommandHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCommandHooks{}
	}
	commandHooks = h
}

// SetCacheHooks registers cache hooks. Pass nil to restore the no-op.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// Download returns the registered download hooks.
func Download() DownloadHooks {
	mu.RLock()
	defer mu.RUnlock()
	return downloadHooks
}

// Command returns the registered command hooks.
func Command() CommandHooks {
	mu.RLock()
	defer mu.RUnlock()
	return commandHooks
}

// CacheEvents returns the registered cache hooks.
func CacheEvents() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
