package vcs

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
	"github.com/matzehuels/srcfetch/pkg/observability"
)

// Downloader orchestrates source retrieval: it merges the declared
// descriptor with URL heuristics, selects a backend, drives the checkout
// and reports the resolved result. Downloader is stateless apart from the
// registry and logger; concurrent invocations with distinct target
// directories are independent.
type Downloader struct {
	registry *Registry
	logger   *log.Logger
}

// NewDownloader creates a downloader. A nil registry gets the default
// backend set without metadata caching; a nil logger uses log.Default().
func NewDownloader(registry *Registry, logger *log.Logger) *Downloader {
	if registry == nil {
		registry = NewRegistry(nil, nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Downloader{registry: registry, logger: logger}
}

// Registry exposes the downloader's backend registry, e.g. for working copy
// introspection.
func (d *Downloader) Registry() *Registry {
	return d.registry
}

// Download retrieves the source code described by declared into targetDir.
//
// The declared provider, revision and path have top precedence; gaps are
// filled from the heuristic decomposition of the URL, and, after checkout,
// from the working tree itself (the latter for reporting only, never for
// backend selection). The URL is the exception: when it decomposes
// confidently, the canonical repository address replaces it for the
// checkout, since a browsing link is not something a VCS server will serve
// a clone from. versionHint is consulted only when the merged revision is
// blank.
//
// A nil error means a complete checkout. A PARTIAL_RESOLUTION error is a
// warning: the returned Result is still valid, but its revision could not
// be resolved to a concrete identifier. Any other error is fatal for this
// invocation and the partial target directory has been cleaned up; the
// error carries the full chain of underlying causes. Retrying is the
// caller's concern.
func (d *Downloader) Download(ctx context.Context, declared Descriptor, targetDir, versionHint string) (*Result, error) {
	heuristic, confident := Split(declared.URL)
	if !confident && declared.URL != "" {
		d.logger.Debug("source URL not confidently decomposed, using it verbatim", "url", declared.URL)
	}
	merged := Merge(declared, heuristic)
	if confident && heuristic.URL != "" {
		// The decomposed repository address is what gets cloned; the
		// declared URL may be a tree/blob browsing link no server answers.
		merged.URL = heuristic.URL
	}

	if merged.URL == "" {
		return nil, apperrors.New(apperrors.ErrCodeNoSourceLocation,
			"no version control URL is known")
	}
	if err := apperrors.ValidateSubPath(merged.Path); err != nil {
		return nil, err
	}

	backend, err := d.registry.Select(merged.Provider, merged.URL)
	if err != nil {
		return nil, err
	}

	if err := apperrors.ValidateTargetDir(targetDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err,
			"create target directory %s", targetDir)
	}

	d.logger.Info("downloading source code",
		"provider", backend.Name(), "url", merged.URL,
		"revision", merged.Revision, "dir", targetDir)

	observability.Download().OnDownloadStart(ctx, backend.Name(), merged.URL)
	start := time.Now()
	resolved, dlErr := backend.Download(ctx, Request{
		URL:         merged.URL,
		Revision:    merged.Revision,
		Path:        merged.Path,
		VersionHint: versionHint,
		TargetDir:   targetDir,
	})
	observability.Download().OnDownloadComplete(ctx, backend.Name(), merged.URL, resolved, time.Since(start), dlErr)

	if dlErr != nil && !apperrors.Is(dlErr, apperrors.ErrCodePartialResolution) {
		// The target was empty or missing before this invocation, so a
		// partial checkout (including one aborted by cancellation) can be
		// discarded wholesale.
		_ = os.RemoveAll(targetDir)
		return nil, apperrors.Wrap(apperrors.ErrCodeVCSClientFailure, dlErr,
			"%s download of %s failed", backend.Name(), merged.URL)
	}

	// Gaps still left after declared metadata and URL heuristics are filled
	// from the working tree, for reporting purposes only.
	merged = Merge(merged, d.workingTreeState(ctx, backend, targetDir))

	revision := resolved
	if revision == "" {
		revision = merged.Revision
	}

	result := &Result{
		Provider: backend.Name(),
		URL:      merged.URL,
		Revision: revision,
		Path:     merged.Path,
		Dir:      targetDir,
	}

	d.logger.Info("downloaded source code",
		"provider", result.Provider, "url", result.URL,
		"revision", result.Revision, "duration", time.Since(start).Round(time.Millisecond))

	return result, dlErr
}

// workingTreeState introspects a freshly checked-out working copy. Failures
// are deliberately swallowed: introspection only fills reporting gaps and
// must never fail a download that already succeeded.
func (d *Downloader) workingTreeState(ctx context.Context, backend Backend, dir string) Descriptor {
	root, ok := backend.WorkingCopyRoot(dir)
	if !ok {
		return Descriptor{}
	}

	desc := Descriptor{Provider: backend.Name()}
	if url, err := backend.RemoteURL(ctx, root); err == nil {
		desc.URL = url
	}
	if rev, err := backend.Revision(ctx, root); err == nil {
		desc.Revision = rev
	}
	return desc
}
