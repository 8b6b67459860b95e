package vcs

import (
	"context"
	"iter"
	"os"
	"strings"

	"github.com/matzehuels/srcfetch/pkg/cache"
	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

// mercurialBackend drives the external hg client.
type mercurialBackend struct {
	run  *Runner
	meta cache.Cache
}

func newMercurial(run *Runner, meta cache.Cache) *mercurialBackend {
	return &mercurialBackend{run: run, meta: meta}
}

func (m *mercurialBackend) Name() string { return ProviderMercurial }

func (m *mercurialBackend) MatchesProvider(hint string) bool {
	return strings.EqualFold(hint, "mercurial") || strings.EqualFold(hint, "hg")
}

func (m *mercurialBackend) MatchesURL(url string) bool {
	switch host := hostOf(url); {
	case host == "bitbucket.org":
		// Bare Bitbucket URLs historically meant Mercurial; Git repositories
		// there carry a .git suffix and are claimed by the Git backend first.
		return true
	case strings.HasPrefix(host, "hg."):
		return true
	}
	return strings.HasPrefix(strings.ToLower(url), "ssh://hg@")
}

func (m *mercurialBackend) WorkingCopyRoot(dir string) (string, bool) {
	return findMarkerUpwards(dir, ".hg")
}

func (m *mercurialBackend) RemoteURL(ctx context.Context, workingDir string) (string, error) {
	out, err := m.run.Run(ctx, workingDir, "hg", "paths", "default")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

func (m *mercurialBackend) Revision(ctx context.Context, workingDir string) (string, error) {
	out, err := m.run.Run(ctx, workingDir, "hg", "log", "--rev", ".", "--template", "{node}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

// Tags lists tag names via a metadata-only clone. Mercurial has no remote
// tag listing, so this is the cheapest honest implementation; results are
// cached to keep repeat calls off the network.
func (m *mercurialBackend) Tags(ctx context.Context, url string) iter.Seq2[string, error] {
	key := cache.Key("tags", "hg", url)
	return cachedTags(ctx, m.meta, key, func() ([]string, error) {
		tmp, err := os.MkdirTemp("", "srcfetch-hg-tags-*")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(tmp)

		if _, err := m.run.Run(ctx, "", "hg", "clone", "--noupdate", url, tmp); err != nil {
			return nil, err
		}
		out, err := m.run.Run(ctx, tmp, "hg", "tags", "--quiet")
		if err != nil {
			return nil, err
		}
		var tags []string
		for _, tag := range out.Lines() {
			if tag != "tip" {
				tags = append(tags, tag)
			}
		}
		return tags, nil
	})
}

func (m *mercurialBackend) Download(ctx context.Context, req Request) (string, error) {
	if _, err := m.run.Run(ctx, "", "hg", "clone", "--noupdate", req.URL, req.TargetDir); err != nil {
		return "", err
	}
	dir := req.TargetDir

	revision := req.Revision
	if revision == "" {
		revision = m.localTagMatch(ctx, dir, hintCandidates(req.VersionHint))
	}

	updateArgs := []string{"update", "--clean"}
	if revision != "" {
		updateArgs = append(updateArgs, "--rev", revision)
	}
	if _, err := m.run.Run(ctx, dir, "hg", updateArgs...); err != nil {
		return "", err
	}

	resolved, err := m.Revision(ctx, dir)
	if err != nil {
		// The working copy is complete at this point; only the revision
		// report is degraded.
		return revision, apperrors.Wrap(apperrors.ErrCodePartialResolution, err,
			"checked out %s but could not resolve its revision", req.URL)
	}
	return resolved, nil
}

// localTagMatch matches hint candidates against the tags of an already
// cloned repository, avoiding a second network round trip.
func (m *mercurialBackend) localTagMatch(ctx context.Context, dir string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	out, err := m.run.Run(ctx, dir, "hg", "tags", "--quiet")
	if err != nil {
		return ""
	}
	present := make(map[string]bool)
	for _, tag := range out.Lines() {
		present[tag] = true
	}
	for _, c := range candidates {
		if present[c] {
			return c
		}
	}
	return ""
}
