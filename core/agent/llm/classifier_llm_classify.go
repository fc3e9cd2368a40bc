package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"classifier_server/core/domain"

	openai "github.com/sashabaranov/go-openai"
)

// maxPromptChars bounds the question text sent to the model.
const maxPromptChars = 500

// systemPrompt fixes the response contract: a JSON object with exactly four
// fields in the three-way label space.
const systemPrompt = `You are an agricultural expert. Classify farming questions into categories.

Respond ONLY with valid JSON in this exact format:
{
  "classification": "crop_specific" or "general" or "mixed",
  "confidence": 0.0 to 1.0,
  "crops": ["list", "of", "crops"],
  "topics": ["list", "of", "topics"]
}

Definitions:
- crop_specific: Question about a specific crop or animal (e.g., "How do I grow maize?")
- general: General farming advice not tied to specific crops (e.g., "How do I improve soil fertility?")
- mixed: Question mentions specific crops but asks general advice (e.g., "What fertilizer for my maize and beans?")`

// Response is the validated shape of the primary model's reply.
type Response struct {
	Classification string   `json:"classification"`
	Confidence     float64  `json:"confidence"`
	Crops          []string `json:"crops"`
	Topics         []string `json:"topics"`
}

// =============================================================================
// Classification (primary, then single fallback)
// =============================================================================

// Classify runs one question through the primary service and, on any primary
// failure (missing credential, open breaker, network error, rate limit,
// timeout, malformed response), through exactly one fallback attempt. When
// both fail the returned result is terminal: source llm_error, label unknown,
// nil confidence. Classify never returns an error; failure is encoded in the
// result so a batch is never aborted by a subset of failures.
func (c *Client) Classify(ctx context.Context, rec domain.TextRecord) domain.ClassificationResult {
	resp, err := c.classifyPrimary(ctx, rec.Text)
	if err == nil {
		conf := resp.Confidence
		return domain.ClassificationResult{
			RecordID:        rec.ID,
			Label:           domain.Label(resp.Classification),
			Source:          domain.SourceLLM,
			Confidence:      &conf,
			ExtractedCrops:  resp.Crops,
			ExtractedTopics: resp.Topics,
		}
	}
	c.log.Debug().Err(err).Str("record_id", rec.ID).Msg("primary classification failed")

	if c.fallback != nil {
		fb, fbErr := c.fallback.Classify(rec.Text)
		if fbErr == nil {
			conf := fb.Confidence
			return domain.ClassificationResult{
				RecordID:       rec.ID,
				Label:          fb.Label,
				Source:         domain.SourceLLM,
				Confidence:     &conf,
				ExtractedCrops: fb.Crops,
			}
		}
		c.log.Debug().Err(fbErr).Str("record_id", rec.ID).Msg("fallback classification failed")
	}

	return domain.ClassificationResult{
		RecordID: rec.ID,
		Label:    domain.LabelUnknown,
		Source:   domain.SourceLLMError,
	}
}

// classifyPrimary issues the single paid call through the circuit breaker.
func (c *Client) classifyPrimary(ctx context.Context, text string) (*Response, error) {
	if c.chat == nil {
		return nil, ErrNoCredential
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("llm: empty question text")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.breaker.Execute(func() (interface{}, error) {
		if c.costs != nil {
			c.costs.Track(c.model)
		}
		resp, err := c.chat.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: "Classify this question: " + truncateText(text, maxPromptChars)},
			},
			Temperature: 0,
			MaxTokens:   c.maxTokens,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("llm: empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return nil, err
	}

	return parseResponse(body.(string))
}

// =============================================================================
// Strict Response Parsing
// =============================================================================

// parseResponse parses and validates the model reply. Any deviation from the
// four-field contract is a parse failure entering the fallback path; no
// unvalidated value crosses this boundary.
func parseResponse(raw string) (*Response, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	// The model sometimes wraps the object in prose; take the outermost braces.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("llm: no JSON object in response")
	}

	// Pointer fields distinguish absent (or null) fields from zero values;
	// all four fields of the contract must be present.
	var body struct {
		Classification *string   `json:"classification"`
		Confidence     *float64  `json:"confidence"`
		Crops          *[]string `json:"crops"`
		Topics         *[]string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &body); err != nil {
		return nil, fmt.Errorf("llm: failed to parse classification response: %w", err)
	}
	if body.Classification == nil || body.Confidence == nil || body.Crops == nil || body.Topics == nil {
		return nil, fmt.Errorf("llm: response missing one of classification, confidence, crops, topics")
	}

	switch domain.Label(*body.Classification) {
	case domain.LabelCropSpecific, domain.LabelGeneral, domain.LabelMixed:
	default:
		return nil, fmt.Errorf("llm: classification %q outside the three-way label set", *body.Classification)
	}
	if *body.Confidence < 0 || *body.Confidence > 1 {
		return nil, fmt.Errorf("llm: confidence %v outside [0,1]", *body.Confidence)
	}

	return &Response{
		Classification: *body.Classification,
		Confidence:     *body.Confidence,
		Crops:          *body.Crops,
		Topics:         *body.Topics,
	}, nil
}

// truncateText caps text at maxLen runes. Rune-based so mixed-language input
// is never cut mid-character.
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
