package vcs

import (
	"context"
	"encoding/json"
	"iter"

	"github.com/matzehuels/srcfetch/pkg/cache"
	apperrors "github.com/matzehuels/srcfetch/pkg/errors"
	"github.com/matzehuels/srcfetch/pkg/observability"
)

// cachedTags wraps a remote tag fetch in the injected metadata cache. The
// returned sequence is lazy (nothing happens until iterated) and restartable
// (each iteration checks the cache again and may issue a fresh fetch). Tag
// order is whatever the remote reported; no sorting is applied.
func cachedTags(ctx context.Context, meta cache.Cache, key string, fetch func() ([]string, error)) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if data, hit, err := meta.Get(ctx, key); err == nil && hit {
			var tags []string
			if json.Unmarshal(data, &tags) == nil {
				observability.CacheEvents().OnCacheHit(ctx, "tags")
				for _, tag := range tags {
					if !yield(tag, nil) {
						return
					}
				}
				return
			}
		}
		observability.CacheEvents().OnCacheMiss(ctx, "tags")

		tags, err := fetchTagsWithRetry(ctx, fetch)
		if err != nil {
			yield("", err)
			return
		}

		if data, err := json.Marshal(tags); err == nil {
			if meta.Set(ctx, key, data, tagCacheTTL) == nil {
				observability.CacheEvents().OnCacheSet(ctx, "tags", len(data))
			}
		}

		for _, tag := range tags {
			if !yield(tag, nil) {
				return
			}
		}
	}
}

// fetchTagsWithRetry runs a remote tag fetch, retrying transient client
// failures with backoff. Other errors, a missing client in particular, fail
// on the first attempt.
func fetchTagsWithRetry(ctx context.Context, fetch func() ([]string, error)) ([]string, error) {
	var tags []string
	err := cache.RetryWithBackoff(ctx, func() error {
		fetched, err := fetch()
		if err != nil {
			if apperrors.Is(err, apperrors.ErrCodeVCSClientFailure) {
				return cache.Retryable(err)
			}
			return err
		}
		tags = fetched
		return nil
	})
	return tags, err
}

// matchTag scans a tag sequence for the first candidate it contains.
// Returns "" when no candidate matches or the listing fails; a failed
// listing only costs the hint, it never fails the download.
func matchTag(tags iter.Seq2[string, error], candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	wanted := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		wanted[c] = true
	}

	best := ""
	bestRank := len(candidates)
	for tag, err := range tags {
		if err != nil {
			return ""
		}
		if !wanted[tag] {
			continue
		}
		for rank, c := range candidates {
			if c == tag && rank < bestRank {
				best, bestRank = tag, rank
			}
		}
		if bestRank == 0 {
			break
		}
	}
	return best
}
