// Package domain contains the core types of the question classification service.
package domain

// =============================================================================
// Input Records
// =============================================================================

// TextRecord is a single immutable input unit: one farmer question.
// Records are created by the caller (HTTP adapter, CSV batch loader) and
// consumed exactly once by the classification pipeline.
type TextRecord struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// =============================================================================
// Labels and Sources
// =============================================================================

// Label is the four-way symmetric classification label.
type Label string

const (
	LabelCropSpecific Label = "crop_specific" // mentions a named crop/animal, no general topic
	LabelGeneral      Label = "general"       // general agricultural concern, no named crop
	LabelMixed        Label = "mixed"         // both a named crop and a general topic
	LabelUnknown      Label = "unknown"       // neither dictionary matched
)

// Valid reports whether l is one of the four symmetric labels.
func (l Label) Valid() bool {
	switch l {
	case LabelCropSpecific, LabelGeneral, LabelMixed, LabelUnknown:
		return true
	}
	return false
}

// Source identifies which classifier stage produced a result.
type Source string

const (
	SourceLexical  Source = "lexical"   // resolved by the keyword dictionaries
	SourceLLM      Source = "llm"       // resolved by the LLM (primary or fallback model)
	SourceLLMError Source = "llm_error" // both LLM paths failed; label is unknown
)

// =============================================================================
// Classification Result
// =============================================================================

// ClassificationResult is the final output for one TextRecord. Exactly one
// result is produced per input record; results are never mutated after
// creation.
//
// Confidence is nil for lexical results and for llm_error results.
// ExtractedCrops/ExtractedTopics are populated only by the LLM path.
type ClassificationResult struct {
	RecordID                 string   `json:"record_id"`
	Label                    Label    `json:"label"`
	MatchedCropCategories    []string `json:"matched_crop_categories,omitempty"`
	MatchedGeneralCategories []string `json:"matched_general_categories,omitempty"`
	Source                   Source   `json:"source"`
	Confidence               *float64 `json:"confidence,omitempty"`
	ExtractedCrops           []string `json:"extracted_crops,omitempty"`
	ExtractedTopics          []string `json:"extracted_topics,omitempty"`
}
