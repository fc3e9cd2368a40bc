package llm

import (
	"fmt"

	"classifier_server/core/domain"
)

// =============================================================================
// Fallback Model
// =============================================================================

// FallbackResult is the reduced result shape of the secondary model: a
// three-way label and confidence, crop mentions when available, no topic
// extraction.
type FallbackResult struct {
	Label      domain.Label
	Confidence float64
	Crops      []string
}

// Fallback is the secondary, locally-run classifier invoked exactly once when
// the primary service fails. It is constrained to the three-way label set.
type Fallback interface {
	Classify(text string) (*FallbackResult, error)
}

// LexicalFallback scores a question against the keyword dictionaries and the
// priority schedule and maps the evidence onto the three-way label set. The
// schedule's term sets reach beyond the symmetric dictionaries (Swahili and
// Luganda triggers, broader English stems like "land" and "seed"), so a
// question the dictionaries left unknown can still resolve here. It runs
// in-process and costs nothing, but it refuses to guess: a question with no
// evidence from either source is a fallback failure, not an unknown.
type LexicalFallback struct {
	dict     *domain.KeywordDictionary
	schedule *domain.PrioritySchedule
}

// NewLexicalFallback creates the built-in fallback over a dictionary pair and
// a priority schedule.
func NewLexicalFallback(dict *domain.KeywordDictionary, schedule *domain.PrioritySchedule) *LexicalFallback {
	return &LexicalFallback{dict: dict, schedule: schedule}
}

// Classify maps dictionary and schedule evidence to a three-way label. A
// schedule match counts as general-topic evidence. Confidence grows with the
// amount of evidence, capped below the primary model's ceiling.
func (f *LexicalFallback) Classify(text string) (*FallbackResult, error) {
	cropCats := f.dict.Match(text, domain.NamespaceCrop)
	generalCats := f.dict.Match(text, domain.NamespaceGeneral)

	topicMatched := false
	if f.schedule != nil {
		_, _, topicMatched = f.schedule.Assign(text)
	}

	total := len(cropCats) + len(generalCats)
	if topicMatched {
		total++
	}
	if total == 0 {
		return nil, fmt.Errorf("fallback: no lexical evidence for classification")
	}

	var label domain.Label
	switch {
	case len(cropCats) > 0 && (len(generalCats) > 0 || topicMatched):
		label = domain.LabelMixed
	case len(cropCats) > 0:
		label = domain.LabelCropSpecific
	default:
		label = domain.LabelGeneral
	}

	confidence := 0.5 + 0.05*float64(total)
	if confidence > 0.9 {
		confidence = 0.9
	}

	return &FallbackResult{
		Label:      label,
		Confidence: confidence,
		Crops:      f.dict.Crop().MatchTerms(text),
	}, nil
}
