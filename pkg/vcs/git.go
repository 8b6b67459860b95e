package vcs

import (
	"context"
	"iter"
	"strings"

	"github.com/matzehuels/srcfetch/pkg/cache"
	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

// gitBackend drives the external git client.
type gitBackend struct {
	run  *Runner
	meta cache.Cache
}

func newGit(run *Runner, meta cache.Cache) *gitBackend {
	return &gitBackend{run: run, meta: meta}
}

func (g *gitBackend) Name() string { return ProviderGit }

func (g *gitBackend) MatchesProvider(hint string) bool {
	return strings.EqualFold(hint, "git")
}

func (g *gitBackend) MatchesURL(url string) bool {
	lower := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(url), "/"))
	if strings.HasSuffix(lower, ".git") {
		return true
	}
	if strings.HasPrefix(lower, "git://") || strings.HasPrefix(lower, "git@") {
		return true
	}
	switch host := hostOf(url); {
	case host == "github.com" || host == "gitlab.com":
		return true
	case strings.HasPrefix(host, "git."):
		return true
	}
	return false
}

func (g *gitBackend) WorkingCopyRoot(dir string) (string, bool) {
	return findMarkerUpwards(dir, ".git")
}

func (g *gitBackend) RemoteURL(ctx context.Context, workingDir string) (string, error) {
	out, err := g.run.Run(ctx, workingDir, "git", "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

func (g *gitBackend) Revision(ctx context.Context, workingDir string) (string, error) {
	out, err := g.run.Run(ctx, workingDir, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

func (g *gitBackend) Tags(ctx context.Context, url string) iter.Seq2[string, error] {
	key := cache.Key("tags", "git", url)
	return cachedTags(ctx, g.meta, key, func() ([]string, error) {
		out, err := g.run.Run(ctx, "", "git", "ls-remote", "--tags", "--refs", url)
		if err != nil {
			return nil, err
		}
		return parseLsRemoteTags(out.Stdout), nil
	})
}

// Download materializes the repository via init/fetch/checkout rather than
// clone, so sparse checkouts and single-revision fetches work the same way
// for branches, tags and commit hashes.
func (g *gitBackend) Download(ctx context.Context, req Request) (string, error) {
	if _, err := g.run.Run(ctx, "", "git", "init", req.TargetDir); err != nil {
		return "", err
	}
	dir := req.TargetDir
	if _, err := g.run.Run(ctx, dir, "git", "remote", "add", "origin", req.URL); err != nil {
		return "", err
	}

	if req.Path != "" {
		// Limiting the checkout to the package's sub-path is an
		// optimization; if the client is too old for it the checkout still
		// succeeds, it just takes more disk space.
		_, _ = g.run.Run(ctx, dir, "git", "sparse-checkout", "set", req.Path)
	}

	revision := req.Revision
	if revision == "" {
		revision = matchTag(g.Tags(ctx, req.URL), hintCandidates(req.VersionHint))
	}

	fetchRef := revision
	if fetchRef == "" {
		fetchRef = "HEAD"
	}

	if _, err := g.run.Run(ctx, dir, "git", "fetch", "--depth", "1", "origin", fetchRef); err == nil {
		if _, err := g.run.Run(ctx, dir, "git", "checkout", "--force", "FETCH_HEAD"); err != nil {
			return "", err
		}
	} else if _, err := g.run.Run(ctx, dir, "git", "fetch", "origin", fetchRef); err == nil {
		// Some servers refuse shallow fetches of unadvertised refs.
		if _, err := g.run.Run(ctx, dir, "git", "checkout", "--force", "FETCH_HEAD"); err != nil {
			return "", err
		}
	} else {
		// Abbreviated commit hashes cannot be fetched by name at all; take
		// the full history and resolve the revision locally.
		if _, err := g.run.Run(ctx, dir, "git", "fetch", "--tags", "origin"); err != nil {
			return "", err
		}
		if _, err := g.run.Run(ctx, dir, "git", "checkout", "--force", revision); err != nil {
			return "", err
		}
	}

	resolved, err := g.Revision(ctx, dir)
	if err != nil {
		// The working copy is complete at this point; only the revision
		// report is degraded.
		return revision, apperrors.Wrap(apperrors.ErrCodePartialResolution, err,
			"checked out %s but could not resolve its revision", req.URL)
	}
	return resolved, nil
}

// parseLsRemoteTags extracts tag names from git ls-remote output, preserving
// the order the remote reported.
func parseLsRemoteTags(stdout string) []string {
	var tags []string
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		if name, ok := strings.CutPrefix(fields[1], "refs/tags/"); ok {
			tags = append(tags, name)
		}
	}
	return tags
}
