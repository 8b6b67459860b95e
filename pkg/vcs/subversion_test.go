package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/srcfetch/pkg/cache"
	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

func TestSubversionMatchesURL(t *testing.T) {
	s := newSubversion(NewRunner(), nil)

	tests := []struct {
		url  string
		want bool
	}{
		{"svn://svn.code.sf.net/p/project/code", true},
		{"svn+ssh://example.com/repo", true},
		{"https://svn.apache.org/repos/asf/subversion", true},
		{"https://example.com/svn/project/trunk", true},
		{"https://github.com/babel/babel.git", false},
		{"https://bitbucket.org/paniq/masagin", false},
	}
	for _, tt := range tests {
		if got := s.MatchesURL(tt.url); got != tt.want {
			t.Errorf("MatchesURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestSubversionDownloadPartialResolution(t *testing.T) {
	s := newSubversion(stubClient(t, "info"), cache.NewNullCache())

	target := filepath.Join(t.TempDir(), "co")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	rev, err := s.Download(context.Background(), Request{
		URL:       "https://svn.example.com/project",
		Revision:  "42",
		TargetDir: target,
	})
	if !apperrors.Is(err, apperrors.ErrCodePartialResolution) {
		t.Fatalf("a failed revision lookup after a good checkout must be PARTIAL_RESOLUTION, got %v", err)
	}
	if rev != "42" {
		t.Errorf("revision = %q, want the requested revision as fallback", rev)
	}
}

func TestSubversionMatchesProvider(t *testing.T) {
	s := newSubversion(NewRunner(), nil)
	for _, hint := range []string{"Subversion", "subversion", "svn", "SVN"} {
		if !s.MatchesProvider(hint) {
			t.Errorf("MatchesProvider(%q) = false", hint)
		}
	}
	for _, hint := range []string{"", "git", "sourceforge"} {
		if s.MatchesProvider(hint) {
			t.Errorf("MatchesProvider(%q) = true", hint)
		}
	}
}
