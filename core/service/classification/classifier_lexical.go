// Package classification implements the two-path question classification
// pipeline: a keyword-dictionary lexical stage with an LLM fallback for the
// questions the dictionaries cannot resolve.
package classification

import (
	"classifier_server/core/domain"
)

// =============================================================================
// Lexical Classifier
// =============================================================================

// LexicalClassifier assigns a label and evidence set to a single question
// using only the keyword dictionaries. It is pure: given the same dictionaries
// and the same text, the output is always identical. It holds no mutable
// state; the dictionary is shared read-only.
type LexicalClassifier struct {
	dict *domain.KeywordDictionary
}

// NewLexicalClassifier creates a lexical classifier over the given dictionary
// pair.
func NewLexicalClassifier(dict *domain.KeywordDictionary) *LexicalClassifier {
	return &LexicalClassifier{dict: dict}
}

// Name returns the classifier name.
func (c *LexicalClassifier) Name() string {
	return "lexical"
}

// Classify applies the symmetric policy to one record:
//
//	crop match only    -> crop_specific
//	general match only -> general
//	both               -> mixed
//	neither            -> unknown
//
// Empty text degrades to unknown; malformed input never errors. The result is
// order-independent: category iteration order cannot change the label.
func (c *LexicalClassifier) Classify(rec domain.TextRecord) domain.ClassificationResult {
	cropCats := c.dict.Match(rec.Text, domain.NamespaceCrop)
	generalCats := c.dict.Match(rec.Text, domain.NamespaceGeneral)

	var label domain.Label
	switch {
	case len(cropCats) > 0 && len(generalCats) == 0:
		label = domain.LabelCropSpecific
	case len(generalCats) > 0 && len(cropCats) == 0:
		label = domain.LabelGeneral
	case len(cropCats) > 0 && len(generalCats) > 0:
		label = domain.LabelMixed
	default:
		label = domain.LabelUnknown
	}

	return domain.ClassificationResult{
		RecordID:                 rec.ID,
		Label:                    label,
		MatchedCropCategories:    cropCats,
		MatchedGeneralCategories: generalCats,
		Source:                   domain.SourceLexical,
	}
}

// CropMentions returns the crop terms found in the text, for frequency
// reporting.
func (c *LexicalClassifier) CropMentions(text string) []string {
	return c.dict.Crop().MatchTerms(text)
}

// =============================================================================
// Prioritized Policy
// =============================================================================

// PriorityAssignment is the outcome of the prioritized first-match-wins
// policy. Category is domain.Unclassified (with empty Tier) when no tier
// matched.
type PriorityAssignment struct {
	RecordID string `json:"record_id"`
	Tier     string `json:"tier,omitempty"`
	Category string `json:"category"`
}

// ClassifyPrioritized applies a priority schedule to one record. The first
// matching category across the ordered tier x category sequence wins; empty or
// unmatched text is assigned domain.Unclassified. Output is deterministic for
// a fixed schedule; unlike the symmetric policy it depends on declaration
// order.
func (c *LexicalClassifier) ClassifyPrioritized(rec domain.TextRecord, schedule *domain.PrioritySchedule) PriorityAssignment {
	tier, category, ok := schedule.Assign(rec.Text)
	if !ok {
		return PriorityAssignment{RecordID: rec.ID, Category: domain.Unclassified}
	}
	return PriorityAssignment{RecordID: rec.ID, Tier: tier, Category: category}
}
