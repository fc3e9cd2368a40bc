package http

import (
	"classifier_server/core/agent/llm"
	"classifier_server/core/domain"
	"classifier_server/pkg/metrics"
	"classifier_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler exposes cost, latency, and dictionary statistics
type StatsHandler struct {
	costs     *llm.CostTracker
	dict      *domain.KeywordDictionary
	latencies *metrics.StageLatencies
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(costs *llm.CostTracker, dict *domain.KeywordDictionary, latencies *metrics.StageLatencies) *StatsHandler {
	return &StatsHandler{costs: costs, dict: dict, latencies: latencies}
}

// Register registers stats routes
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/classifications/stats", h.Stats)
}

// DictionaryStats summarizes the loaded keyword dictionaries
type DictionaryStats struct {
	CropCategories    int      `json:"crop_categories"`
	GeneralCategories int      `json:"general_categories"`
	OverlappingTerms  []string `json:"overlapping_terms,omitempty"`
}

// ServiceStats is the stats endpoint payload
type ServiceStats struct {
	Cost       llm.CostStats                   `json:"cost"`
	Dictionary DictionaryStats                 `json:"dictionary"`
	Latency    map[string]metrics.LatencyStats `json:"latency,omitempty"`
}

// Stats returns accumulated LLM cost figures and dictionary shape
// @Summary Service statistics
// @Tags Classifications
// @Produce json
// @Success 200 {object} ServiceStats
// @Router /api/v1/classifications/stats [get]
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	stats := ServiceStats{
		Cost: h.costs.Stats(),
		Dictionary: DictionaryStats{
			CropCategories:    len(h.dict.Crop().Categories()),
			GeneralCategories: len(h.dict.General().Categories()),
			OverlappingTerms:  h.dict.Overlap(),
		},
	}
	if h.latencies != nil {
		stats.Latency = h.latencies.Snapshot()
	}
	return response.OK(c, stats)
}
