package vcs

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/srcfetch/pkg/cache"
	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
)

func collectTags(t *testing.T, seq func(yield func(string, error) bool)) []string {
	t.Helper()
	var tags []string
	for tag, err := range seq {
		if err != nil {
			t.Fatalf("tag listing failed: %v", err)
		}
		tags = append(tags, tag)
	}
	return tags
}

func TestCachedTagsFetchesOnceWithCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()

	fetches := 0
	fetch := func() ([]string, error) {
		fetches++
		return []string{"v1.0.0", "v1.1.0"}, nil
	}
	ctx := context.Background()

	seq := cachedTags(ctx, fc, "tags:test-repo", fetch)
	first := collectTags(t, seq)
	second := collectTags(t, seq)

	if fetches != 1 {
		t.Errorf("fetches = %d, want 1 (second iteration served from cache)", fetches)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("first = %v, second = %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("iterations disagree: %v vs %v", first, second)
		}
	}
}

func TestCachedTagsRestartableWithoutCache(t *testing.T) {
	fetches := 0
	fetch := func() ([]string, error) {
		fetches++
		return []string{"a", "b"}, nil
	}

	seq := cachedTags(context.Background(), cache.NewNullCache(), "tags:x", fetch)
	collectTags(t, seq)
	collectTags(t, seq)

	if fetches != 2 {
		t.Errorf("fetches = %d, want a fresh fetch per iteration without a cache", fetches)
	}
}

func TestCachedTagsLazy(t *testing.T) {
	fetches := 0
	seq := cachedTags(context.Background(), cache.NewNullCache(), "tags:x", func() ([]string, error) {
		fetches++
		return nil, nil
	})
	_ = seq // never iterated
	if fetches != 0 {
		t.Error("fetch must not run before iteration")
	}
}

func TestCachedTagsPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("remote unreachable")
	seq := cachedTags(context.Background(), cache.NewNullCache(), "tags:x", func() ([]string, error) {
		return nil, wantErr
	})

	var got error
	for _, err := range seq {
		got = err
	}
	if !errors.Is(got, wantErr) {
		t.Errorf("got %v, want %v", got, wantErr)
	}
}

func TestCachedTagsRetriesTransientFailure(t *testing.T) {
	fetches := 0
	seq := cachedTags(context.Background(), cache.NewNullCache(), "tags:x", func() ([]string, error) {
		fetches++
		if fetches == 1 {
			return nil, apperrors.New(apperrors.ErrCodeVCSClientFailure, "connection reset")
		}
		return []string{"v1.0.0"}, nil
	})

	tags := collectTags(t, seq)
	if fetches != 2 {
		t.Errorf("fetches = %d, want a retry after a transient client failure", fetches)
	}
	if len(tags) != 1 || tags[0] != "v1.0.0" {
		t.Errorf("tags = %v", tags)
	}
}

func TestCachedTagsMissingClientFailsImmediately(t *testing.T) {
	fetches := 0
	seq := cachedTags(context.Background(), cache.NewNullCache(), "tags:x", func() ([]string, error) {
		fetches++
		return nil, apperrors.New(apperrors.ErrCodeClientNotFound, "hg client is not installed")
	})

	var got error
	for _, err := range seq {
		got = err
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, a missing client must not be retried", fetches)
	}
	if !apperrors.Is(got, apperrors.ErrCodeClientNotFound) {
		t.Errorf("got %v", got)
	}
}

func TestCachedTagsEarlyBreak(t *testing.T) {
	seq := cachedTags(context.Background(), cache.NewNullCache(), "tags:x", func() ([]string, error) {
		return []string{"a", "b", "c"}, nil
	})

	count := 0
	for range seq {
		count++
		break
	}
	if count != 1 {
		t.Errorf("yielded %d after break, want 1", count)
	}
}

func TestMatchTag(t *testing.T) {
	tagSeq := func(tags ...string) func(yield func(string, error) bool) {
		return func(yield func(string, error) bool) {
			for _, tag := range tags {
				if !yield(tag, nil) {
					return
				}
			}
		}
	}

	tests := []struct {
		name       string
		tags       []string
		candidates []string
		want       string
	}{
		{"exact match", []string{"v0.9", "1.2.3", "v2.0"}, []string{"1.2.3", "v1.2.3"}, "1.2.3"},
		{"prefixed fallback", []string{"v0.9", "v1.2.3"}, []string{"1.2.3", "v1.2.3"}, "v1.2.3"},
		{"earlier candidate preferred over tag order", []string{"v1.2.3", "1.2.3"}, []string{"1.2.3", "v1.2.3"}, "1.2.3"},
		{"no match", []string{"v0.9"}, []string{"1.2.3", "v1.2.3"}, ""},
		{"no candidates", []string{"v0.9"}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchTag(tagSeq(tt.tags...), tt.candidates); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchTagListingFailure(t *testing.T) {
	failing := func(yield func(string, error) bool) {
		yield("", errors.New("remote unreachable"))
	}
	if got := matchTag(failing, []string{"1.0"}); got != "" {
		t.Errorf("got %q, want empty on listing failure", got)
	}
}
