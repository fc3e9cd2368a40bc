package cache

import (
	"context"
	"testing"

	"classifier_server/core/domain"
)

// TestNilClientNoOp tests that a cache without Redis silently misses.
func TestNilClientNoOp(t *testing.T) {
	c := NewResultCache(nil, 0)
	ctx := context.Background()

	conf := 0.9
	c.Put(ctx, "how do I plant maize", domain.ClassificationResult{
		RecordID:   "q1",
		Label:      domain.LabelCropSpecific,
		Source:     domain.SourceLLM,
		Confidence: &conf,
	})

	if _, ok := c.Get(ctx, "q1", "how do I plant maize"); ok {
		t.Error("nil-client cache should never hit")
	}
}

// TestCacheKeyNormalization tests that keying ignores case and surrounding
// whitespace but not interior differences.
func TestCacheKeyNormalization(t *testing.T) {
	base := cacheKey("How do I plant maize?")

	same := []string{
		"how do i plant maize?",
		"  How do I plant maize?  ",
		"HOW DO I PLANT MAIZE?",
	}
	for _, text := range same {
		if got := cacheKey(text); got != base {
			t.Errorf("cacheKey(%q) = %q, want %q", text, got, base)
		}
	}

	if cacheKey("how do I plant beans?") == base {
		t.Error("different questions must not share a key")
	}
	if cacheKey("how  do I plant maize?") == base {
		t.Error("interior whitespace is significant")
	}
}

func TestCacheKeyPrefix(t *testing.T) {
	key := cacheKey("anything")
	if len(key) != len(keyPrefix)+32 {
		t.Errorf("key length = %d, want prefix plus 32 hex chars", len(key))
	}
	if key[:len(keyPrefix)] != keyPrefix {
		t.Errorf("key %q missing prefix %q", key, keyPrefix)
	}
}
