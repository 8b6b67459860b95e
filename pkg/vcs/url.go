package vcs

import (
	neturl "net/url"
	"regexp"
	"strings"
)

// scpLikeRe matches scp-style Git addresses such as "git@github.com:owner/repo".
var scpLikeRe = regexp.MustCompile(`^([\w.-]+@[\w.-]+):(.+)$`)

// schemeFixes maps well-known scheme typos and composite schemes to their
// canonical form.
var schemeFixes = map[string]string{
	"git+https://": "https://",
	"git+http://":  "http://",
	"git+ssh://":   "ssh://",
	"ssh+git://":   "ssh://",
}

// Normalize canonicalizes a VCS or homepage URL: embedded http(s)
// credentials are stripped, well-known scheme typos are corrected, scp-style
// Git addresses are rewritten to ssh URLs, the host is lower-cased and the
// ".git" suffix is appended for hosts that mandate one. Normalize is
// idempotent and never fails; input it cannot improve is returned trimmed
// but otherwise unchanged.
func Normalize(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return s
	}

	for typo, fixed := range schemeFixes {
		if strings.HasPrefix(s, typo) {
			s = fixed + strings.TrimPrefix(s, typo)
			break
		}
	}

	if !strings.Contains(s, "://") {
		if m := scpLikeRe.FindStringSubmatch(s); m != nil {
			s = "ssh://" + m[1] + "/" + m[2]
		}
	}

	u, err := neturl.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}

	u.Host = strings.ToLower(u.Host)
	if u.User != nil && (u.Scheme == "http" || u.Scheme == "https") {
		u.User = nil
	}

	if rules, ok := knownHosts[u.Hostname()]; ok && rules.gitSuffix && rules.defaultProvider == ProviderGit {
		segments := pathSegments(u.Path)
		if len(segments) == 2 && !strings.HasSuffix(u.Path, ".git") {
			u.Path += ".git"
		}
	}

	return u.String()
}

// Split heuristically decomposes a hosting-service URL into a structured
// descriptor. The second return value reports confidence: when the host is
// unrecognized, the URL carries a query string or fragment, fewer than two
// path segments are present, or parsing fails, Split returns the opaque
// passthrough descriptor {"", original, "", ""} and false instead of
// guessing.
//
// For a recognized host the path is read as
// /{owner}/{repo}[/{marker}/{ref}[/{subpath...}]] where the marker is a
// host-specific browsing keyword recognized only as the exact third path
// segment. The returned URL is always the bare owner/repo repository
// address with the host's required suffix applied consistently with the
// resolved provider.
func Split(rawURL string) (Descriptor, bool) {
	passthrough := Descriptor{URL: rawURL}

	u, err := neturl.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return passthrough, false
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return passthrough, false
	}

	rules, known := knownHosts[strings.ToLower(u.Hostname())]
	if !known {
		return passthrough, false
	}

	segments := pathSegments(u.Path)
	if len(segments) < 2 {
		return passthrough, false
	}

	owner := segments[0]
	repo := strings.TrimSuffix(segments[1], ".git")
	provider := rules.defaultProvider
	revision := ""
	subPath := ""

	if len(segments) >= 4 {
		marker := segments[2]
		if rules.branchMarkers[marker] || rules.commitMarkers[marker] {
			revision = segments[3]
			if len(segments) > 4 {
				subPath = strings.TrimSuffix(strings.Join(segments[4:], "/"), ".git")
			}
			if rules.forcesGit {
				provider = ProviderGit
			}
		}
	}

	suffix := ""
	if provider == ProviderGit && rules.gitSuffix {
		suffix = ".git"
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	userinfo := ""
	if u.User != nil && scheme != "http" && scheme != "https" {
		userinfo = u.User.Username() + "@"
	}

	return Descriptor{
		Provider: provider,
		URL:      scheme + "://" + userinfo + strings.ToLower(u.Host) + "/" + owner + "/" + repo + suffix,
		Revision: revision,
		Path:     subPath,
	}, true
}

// pathSegments splits a URL path into its non-empty segments.
func pathSegments(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// hostOf extracts the lower-cased hostname from a URL, handling scp-style
// Git addresses. Returns "" when no host can be determined.
func hostOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		if m := scpLikeRe.FindStringSubmatch(s); m != nil {
			at := strings.LastIndex(m[1], "@")
			return strings.ToLower(m[1][at+1:])
		}
		s = "https://" + s
	}
	u, err := neturl.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
