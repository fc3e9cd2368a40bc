package classification

import (
	"sort"
	"time"

	"classifier_server/core/domain"
)

// =============================================================================
// Batch Statistics
// =============================================================================

// TermCount is one entry of a frequency ranking.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// BatchStats summarizes one ClassifyBatch run.
type BatchStats struct {
	Total            int                      `json:"total"`
	ByLabel          map[domain.Label]int     `json:"by_label"`
	ByLabelPercent   map[domain.Label]float64 `json:"by_label_percent,omitempty"`
	BySource         map[domain.Source]int    `json:"by_source"`
	LexicalResolved  int                   `json:"lexical_resolved"`
	LLMCalls         int64                 `json:"llm_calls"`
	CacheHits        int64                 `json:"cache_hits"`
	ShortCircuited   int64                 `json:"short_circuited"`
	ElapsedMs        int64                 `json:"elapsed_ms"`
	RecordsPerSecond float64               `json:"records_per_second"`
	EstimatedCostUSD float64               `json:"estimated_cost_usd"`
	TopCrops         []TermCount           `json:"top_crops,omitempty"`
	CropCategories   map[string]int        `json:"crop_categories,omitempty"`
}

const topCropsLimit = 20

func (r *HybridRouter) buildStats(records []domain.TextRecord, results []domain.ClassificationResult, llmCalls, shortCircuited, cacheHits int64, elapsed time.Duration) *BatchStats {
	stats := &BatchStats{
		Total:            len(records),
		ByLabel:          make(map[domain.Label]int),
		BySource:         make(map[domain.Source]int),
		LLMCalls:         llmCalls,
		CacheHits:        cacheHits,
		ShortCircuited:   shortCircuited,
		ElapsedMs:        elapsed.Milliseconds(),
		EstimatedCostUSD: float64(llmCalls) * r.config.CostPerCallUSD,
		CropCategories:   make(map[string]int),
	}

	cropMentions := make(map[string]int)
	for i, res := range results {
		stats.ByLabel[res.Label]++
		stats.BySource[res.Source]++
		if res.Source == domain.SourceLexical && res.Label != domain.LabelUnknown {
			stats.LexicalResolved++
		}
		for _, cat := range res.MatchedCropCategories {
			stats.CropCategories[cat]++
		}
		switch res.Source {
		case domain.SourceLexical:
			for _, term := range r.lexical.CropMentions(records[i].Text) {
				cropMentions[term]++
			}
		case domain.SourceLLM:
			for _, crop := range res.ExtractedCrops {
				cropMentions[crop]++
			}
		}
	}

	if sec := elapsed.Seconds(); sec > 0 {
		stats.RecordsPerSecond = float64(len(records)) / sec
	}

	if stats.Total > 0 {
		stats.ByLabelPercent = make(map[domain.Label]float64, len(stats.ByLabel))
		for label, n := range stats.ByLabel {
			stats.ByLabelPercent[label] = float64(n) * 100 / float64(stats.Total)
		}
	}

	stats.TopCrops = rankTerms(cropMentions, topCropsLimit)
	if len(stats.CropCategories) == 0 {
		stats.CropCategories = nil
	}
	return stats
}

// rankTerms returns the top counted terms, highest first, ties broken
// alphabetically for stable output.
func rankTerms(counts map[string]int, limit int) []TermCount {
	if len(counts) == 0 {
		return nil
	}
	ranked := make([]TermCount, 0, len(counts))
	for term, n := range counts {
		ranked = append(ranked, TermCount{Term: term, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Term < ranked[j].Term
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
