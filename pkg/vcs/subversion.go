package vcs

import (
	"context"
	"iter"
	"strings"

	"github.com/matzehuels/srcfetch/pkg/cache"
	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

// subversionBackend drives the external svn client.
type subversionBackend struct {
	run  *Runner
	meta cache.Cache
}

func newSubversion(run *Runner, meta cache.Cache) *subversionBackend {
	return &subversionBackend{run: run, meta: meta}
}

func (s *subversionBackend) Name() string { return ProviderSubversion }

func (s *subversionBackend) MatchesProvider(hint string) bool {
	return strings.EqualFold(hint, "subversion") || strings.EqualFold(hint, "svn")
}

func (s *subversionBackend) MatchesURL(url string) bool {
	lower := strings.ToLower(strings.TrimSpace(url))
	if strings.HasPrefix(lower, "svn://") || strings.HasPrefix(lower, "svn+ssh://") {
		return true
	}
	if strings.HasPrefix(hostOf(url), "svn.") {
		return true
	}
	return strings.Contains(lower, "/svn/")
}

func (s *subversionBackend) WorkingCopyRoot(dir string) (string, bool) {
	return findMarkerUpwards(dir, ".svn")
}

func (s *subversionBackend) RemoteURL(ctx context.Context, workingDir string) (string, error) {
	out, err := s.run.Run(ctx, workingDir, "svn", "info", "--show-item", "repos-root-url")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

func (s *subversionBackend) Revision(ctx context.Context, workingDir string) (string, error) {
	out, err := s.run.Run(ctx, workingDir, "svn", "info", "--show-item", "revision")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

func (s *subversionBackend) Tags(ctx context.Context, url string) iter.Seq2[string, error] {
	key := cache.Key("tags", "svn", url)
	return cachedTags(ctx, s.meta, key, func() ([]string, error) {
		out, err := s.run.Run(ctx, "", "svn", "list", strings.TrimSuffix(url, "/")+"/tags")
		if err != nil {
			return nil, err
		}
		var tags []string
		for _, line := range out.Lines() {
			tags = append(tags, strings.TrimSuffix(line, "/"))
		}
		return tags, nil
	})
}

// Download checks out the requested location. With a blank revision the
// version hint is matched against the conventional tags/ layout; failing
// that the repository head is used.
func (s *subversionBackend) Download(ctx context.Context, req Request) (string, error) {
	base := strings.TrimSuffix(req.URL, "/")
	checkoutURL := base

	revision := req.Revision
	if revision == "" {
		if tag := matchTag(s.Tags(ctx, req.URL), hintCandidates(req.VersionHint)); tag != "" {
			checkoutURL = base + "/tags/" + tag
		}
	}
	if req.Path != "" {
		checkoutURL += "/" + strings.Trim(req.Path, "/")
	}

	args := []string{"checkout"}
	if revision != "" {
		args = append(args, "--revision", revision)
	}
	args = append(args, checkoutURL, req.TargetDir)

	if _, err := s.run.Run(ctx, "", "svn", args...); err != nil {
		return "", err
	}

	resolved, err := s.Revision(ctx, req.TargetDir)
	if err != nil {
		// The working copy is complete at this point; only the revision
		// report is degraded.
		return revision, apperrors.Wrap(apperrors.ErrCodePartialResolution, err,
			"checked out %s but could not resolve its revision", req.URL)
	}
	return resolved, nil
}
