package http

import (
	"strings"

	"classifier_server/core/domain"
	"classifier_server/core/service/classification"
	"classifier_server/pkg/apperr"
	"classifier_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxBatchSize = 1000

// ClassificationHandler handles HTTP requests for question classification
type ClassificationHandler struct {
	router   *classification.HybridRouter
	schedule *domain.PrioritySchedule
	lexical  *classification.LexicalClassifier
}

// NewClassificationHandler creates a new ClassificationHandler
func NewClassificationHandler(router *classification.HybridRouter, lexical *classification.LexicalClassifier, schedule *domain.PrioritySchedule) *ClassificationHandler {
	return &ClassificationHandler{
		router:   router,
		schedule: schedule,
		lexical:  lexical,
	}
}

// Register registers classification routes
func (h *ClassificationHandler) Register(router fiber.Router) {
	classifications := router.Group("/classifications")

	classifications.Post("/", h.ClassifyBatch)
	classifications.Post("/priority", h.ClassifyPriority)
}

// ClassifyRequest represents one question to classify
type ClassifyRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ClassifyBatchRequest represents the HTTP request to classify a batch
type ClassifyBatchRequest struct {
	Questions []ClassifyRequest `json:"questions"`
}

// ClassifyBatchResponse carries the per-question results plus batch stats
type ClassifyBatchResponse struct {
	Results []domain.ClassificationResult `json:"results"`
	Stats   *classification.BatchStats    `json:"stats"`
}

// ClassifyBatch classifies a batch of questions
// @Summary Classify farmer questions
// @Tags Classifications
// @Accept json
// @Produce json
// @Param request body ClassifyBatchRequest true "Questions to classify"
// @Success 200 {object} ClassifyBatchResponse
// @Router /api/v1/classifications [post]
func (h *ClassificationHandler) ClassifyBatch(c *fiber.Ctx) error {
	var req ClassifyBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if len(req.Questions) == 0 {
		return apperr.MissingField("questions")
	}
	if len(req.Questions) > maxBatchSize {
		return apperr.ValidationFailed("batch exceeds maximum size").
			WithDetail("max", maxBatchSize)
	}

	records := make([]domain.TextRecord, len(req.Questions))
	for i, q := range req.Questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			id = uuid.New().String()
		}
		records[i] = domain.TextRecord{ID: id, Text: q.Text}
	}

	results, stats := h.router.ClassifyBatch(c.Context(), records)

	return response.OKWithMeta(c, ClassifyBatchResponse{
		Results: results,
		Stats:   stats,
	}, &response.Meta{
		Total:          stats.Total,
		LLMCalls:       stats.LLMCalls,
		ShortCircuited: stats.ShortCircuited,
		ElapsedMs:      stats.ElapsedMs,
	})
}

// ClassifyPriorityResponse carries prioritized first-match assignments
type ClassifyPriorityResponse struct {
	Results []classification.PriorityAssignment `json:"results"`
}

// ClassifyPriority assigns each question a single topic by the tiered
// first-match policy
// @Summary Assign priority topics to farmer questions
// @Tags Classifications
// @Accept json
// @Produce json
// @Param request body ClassifyBatchRequest true "Questions to classify"
// @Success 200 {object} ClassifyPriorityResponse
// @Router /api/v1/classifications/priority [post]
func (h *ClassificationHandler) ClassifyPriority(c *fiber.Ctx) error {
	var req ClassifyBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if len(req.Questions) == 0 {
		return apperr.MissingField("questions")
	}
	if len(req.Questions) > maxBatchSize {
		return apperr.ValidationFailed("batch exceeds maximum size").
			WithDetail("max", maxBatchSize)
	}

	results := make([]classification.PriorityAssignment, len(req.Questions))
	for i, q := range req.Questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			id = uuid.New().String()
		}
		rec := domain.TextRecord{ID: id, Text: q.Text}
		results[i] = h.lexical.ClassifyPrioritized(rec, h.schedule)
	}

	return response.OK(c, ClassifyPriorityResponse{Results: results})
}
