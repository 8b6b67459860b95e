package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingDownloadHooks struct {
	starts    int
	completes int
	lastErr   error
}

func (h *recordingDownloadHooks) OnDownloadStart(context.Context, string, string) { h.starts++ }

func (h *recordingDownloadHooks) OnDownloadComplete(_ context.Context, _, _, _ string, _ time.Duration, err error) {
	h.completes++
	h.lastErr = err
}

func TestDownloadHookRegistration(t *testing.T) {
	rec := &recordingDownloadHooks{}
	SetDownloadHooks(rec)
	defer SetDownloadHooks(nil)

	ctx := context.Background()
	Download().OnDownloadStart(ctx, "Git", "https://example.com/r.git")
	wantErr := errors.New("boom")
	Download().OnDownloadComplete(ctx, "Git", "https://example.com/r.git", "", time.Second, wantErr)

	if rec.starts != 1 || rec.completes != 1 {
		t.Errorf("starts = %d, completes = %d, want 1/1", rec.starts, rec.completes)
	}
	if rec.lastErr != wantErr {
		t.Errorf("lastErr = %v, want %v", rec.lastErr, wantErr)
	}
}

func TestNilResetsToNoop(t *testing.T) {
	SetDownloadHooks(&recordingDownloadHooks{})
	SetDownloadHooks(nil)
	if _, ok := Download().(NoopDownloadHooks); !ok {
		t.Error("nil should restore the no-op implementation")
	}

	SetCommandHooks(nil)
	if _, ok := Command().(NoopCommandHooks); !ok {
		t.Error("nil should restore the no-op command hooks")
	}

	SetCacheHooks(nil)
	if _, ok := CacheEvents().(NoopCacheHooks); !ok {
		t.Error("nil should restore the no-op cache hooks")
	}
}

func TestNoopHooksAreSafe(t *testing.T) {
	ctx := context.Background()
	// Must not panic.
	NoopDownloadHooks{}.OnDownloadStart(ctx, "Git", "url")
	NoopCommandHooks{}.OnCommandComplete(ctx, "git", []string{"fetch"}, 0, nil)
	NoopCacheHooks{}.OnCacheSet(ctx, "tags", 128)
}
