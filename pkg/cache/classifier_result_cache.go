// Package cache provides a Redis-backed cache for LLM classification results,
// so a question seen before never pays for a second call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"classifier_server/core/domain"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "classify:llm:"
	defaultTTL = 24 * time.Hour
)

// ResultCache caches LLM classification results keyed by normalized question
// text. It is nil-Redis tolerant: without a client every operation is a no-op.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a result cache. client may be nil.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

// cachedResult is the stored subset of a result; the record ID belongs to the
// request, not the cache entry.
type cachedResult struct {
	Label           domain.Label  `json:"label"`
	Source          domain.Source `json:"source"`
	Confidence      *float64      `json:"confidence,omitempty"`
	ExtractedCrops  []string      `json:"crops,omitempty"`
	ExtractedTopics []string      `json:"topics,omitempty"`
}

// Get looks up a cached result for the text. The returned result carries the
// given record ID. A cache miss or any Redis error returns ok=false.
func (c *ResultCache) Get(ctx context.Context, recordID, text string) (domain.ClassificationResult, bool) {
	if c.client == nil {
		return domain.ClassificationResult{}, false
	}

	data, err := c.client.Get(ctx, cacheKey(text)).Result()
	if err != nil {
		return domain.ClassificationResult{}, false
	}

	var entry cachedResult
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return domain.ClassificationResult{}, false
	}

	return domain.ClassificationResult{
		RecordID:        recordID,
		Label:           entry.Label,
		Source:          entry.Source,
		Confidence:      entry.Confidence,
		ExtractedCrops:  entry.ExtractedCrops,
		ExtractedTopics: entry.ExtractedTopics,
	}, true
}

// Put stores a successful LLM result. Failed classifications are never
// cached; a dead upstream should not poison future batches.
func (c *ResultCache) Put(ctx context.Context, text string, res domain.ClassificationResult) {
	if c.client == nil || res.Source != domain.SourceLLM {
		return
	}

	data, err := json.Marshal(cachedResult{
		Label:           res.Label,
		Source:          res.Source,
		Confidence:      res.Confidence,
		ExtractedCrops:  res.ExtractedCrops,
		ExtractedTopics: res.ExtractedTopics,
	})
	if err != nil {
		return
	}

	c.client.Set(ctx, cacheKey(text), data, c.ttl)
}

func cacheKey(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := sha256.Sum256([]byte(normalized))
	return keyPrefix + hex.EncodeToString(sum[:16])
}
