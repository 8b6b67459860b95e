package vcs

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/srcfetch/pkg/cache"
	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

// tagCacheTTL bounds how long remote tag listings are served from the
// injected metadata cache before the remote is asked again.
const tagCacheTTL = 6 * time.Hour

// Request describes one checkout operation handed to a backend.
type Request struct {
	// URL is the repository address, never blank.
	URL string

	// Revision is the ref or revision to check out. Blank is not an error;
	// the backend decides what it resolves to, typically the default branch
	// tip, after consulting VersionHint.
	Revision string

	// Path restricts the checkout to a sub-path of a multi-package
	// repository where the backend supports that.
	Path string

	// VersionHint is a project version string consulted only when Revision
	// is blank, to guess a matching release tag.
	VersionHint string

	// TargetDir is the directory to materialize the working copy into.
	TargetDir string
}

// Backend adapts one external version control client. Implementations are
// stateless: they retain nothing across calls and never mutate the registry.
type Backend interface {
	// Name returns the canonical provider name (e.g. "Git").
	Name() string

	// MatchesProvider reports whether hint names this backend,
	// case-insensitively and including common aliases.
	MatchesProvider(hint string) bool

	// MatchesURL reports whether the URL looks like it belongs to this
	// backend. Purely pattern-based; never touches the network.
	MatchesURL(url string) bool

	// WorkingCopyRoot walks dir and its ancestors looking for this
	// backend's administrative marker and returns the working copy root.
	WorkingCopyRoot(dir string) (string, bool)

	// RemoteURL reports the working copy's primary remote address.
	RemoteURL(ctx context.Context, workingDir string) (string, error)

	// Revision reports the currently checked-out revision.
	Revision(ctx context.Context, workingDir string) (string, error)

	// Tags lazily lists ref names from the remote in the order the remote
	// reports them. The sequence is restartable; each full iteration may
	// issue a fresh network call (subject to the metadata cache).
	Tags(ctx context.Context, url string) iter.Seq2[string, error]

	// Download materializes url at the requested revision into the target
	// directory and returns the concrete revision that was checked out.
	Download(ctx context.Context, req Request) (string, error)
}

// Registry is the fixed, ordered set of VCS backends. The set is closed at
// build time; there is no dynamic registration.
type Registry struct {
	backends []Backend
}

// NewRegistry creates the registry with all known backends in priority
// order: Git, Mercurial, Subversion. A nil runner uses PATH lookup; a nil
// metadata cache disables tag-listing caching.
func NewRegistry(runner *Runner, metadata cache.Cache) *Registry {
	if runner == nil {
		runner = NewRunner()
	}
	if metadata == nil {
		metadata = cache.NewNullCache()
	}
	return &Registry{
		backends: []Backend{
			newGit(runner, metadata),
			newMercurial(runner, metadata),
			newSubversion(runner, metadata),
		},
	}
}

// Backends returns the registered backends in priority order.
func (r *Registry) Backends() []Backend {
	return r.backends
}

// Select picks the backend for a download. A non-blank provider hint is
// authoritative: if no backend answers to it the selection fails without
// falling through to URL matching, so the wrong client is never run against
// a repository it cannot understand. Without a hint the first backend whose
// URL heuristics match wins.
func (r *Registry) Select(providerHint, url string) (Backend, error) {
	if strings.TrimSpace(providerHint) != "" {
		for _, b := range r.backends {
			if b.MatchesProvider(providerHint) {
				return b, nil
			}
		}
		return nil, apperrors.New(apperrors.ErrCodeNoApplicableBackend,
			"no backend matches provider %q", providerHint)
	}

	for _, b := range r.backends {
		if b.MatchesURL(url) {
			return b, nil
		}
	}
	return nil, apperrors.New(apperrors.ErrCodeNoApplicableBackend,
		"no backend understands URL %s", url)
}

// ForDirectory finds the backend owning the working copy that contains dir,
// along with the working copy root.
func (r *Registry) ForDirectory(dir string) (Backend, string, bool) {
	for _, b := range r.backends {
		if root, ok := b.WorkingCopyRoot(dir); ok {
			return b, root, true
		}
	}
	return nil, "", false
}

// findMarkerUpwards walks from dir to the filesystem root looking for an
// entry named marker and returns the directory containing it. Used by the
// backends to locate working copy roots (.git may be a file in worktrees,
// so any entry type counts).
func findMarkerUpwards(dir, marker string) (string, bool) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// hintCandidates lists the tag names a bare version string may correspond
// to, in preference order.
func hintCandidates(versionHint string) []string {
	hint := strings.TrimSpace(versionHint)
	if hint == "" {
		return nil
	}
	if strings.HasPrefix(hint, "v") {
		return []string{hint}
	}
	return []string{hint, "v" + hint}
}
