package classification

import (
	"reflect"
	"testing"

	"classifier_server/core/domain"
)

// TestLexicalClassify tests the symmetric policy over the built-in
// dictionaries.
func TestLexicalClassify(t *testing.T) {
	classifier := NewLexicalClassifier(domain.DefaultKeywordDictionary())

	tests := []struct {
		name            string
		text            string
		wantLabel       domain.Label
		wantCropCats    []string
		wantGeneralCats []string
	}{
		{
			name:            "crop only",
			text:            "How do I plant maize?",
			wantLabel:       domain.LabelCropSpecific,
			wantCropCats:    []string{"cereals"},
			wantGeneralCats: nil,
		},
		{
			name:            "general only",
			text:            "How to improve fertility with compost?",
			wantLabel:       domain.LabelGeneral,
			wantCropCats:    nil,
			wantGeneralCats: []string{"soil"},
		},
		{
			name:            "both namespaces give mixed",
			text:            "What fertilizer should I use for my tomato plants?",
			wantLabel:       domain.LabelMixed,
			wantCropCats:    []string{"vegetables"},
			wantGeneralCats: []string{"fertilizer"},
		},
		{
			name:      "neither gives unknown",
			text:      "Hello, can you help me?",
			wantLabel: domain.LabelUnknown,
		},
		{
			name:      "empty text degrades to unknown",
			text:      "",
			wantLabel: domain.LabelUnknown,
		},
		{
			name:         "multiple crop categories",
			text:         "maize with beans and tilapia",
			wantLabel:    domain.LabelCropSpecific,
			wantCropCats: []string{"cereals", "legumes", "aquaculture"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(domain.TextRecord{ID: "q1", Text: tt.text})

			if got.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Source != domain.SourceLexical {
				t.Errorf("source = %q, want %q", got.Source, domain.SourceLexical)
			}
			if got.RecordID != "q1" {
				t.Errorf("record id = %q, want q1", got.RecordID)
			}
			if tt.wantCropCats != nil && !reflect.DeepEqual(got.MatchedCropCategories, tt.wantCropCats) {
				t.Errorf("crop categories = %v, want %v", got.MatchedCropCategories, tt.wantCropCats)
			}
			if tt.wantGeneralCats != nil && !reflect.DeepEqual(got.MatchedGeneralCategories, tt.wantGeneralCats) {
				t.Errorf("general categories = %v, want %v", got.MatchedGeneralCategories, tt.wantGeneralCats)
			}
		})
	}
}

// TestLexicalClassifyDeterministic tests that repeated classification of the
// same text is byte-identical.
func TestLexicalClassifyDeterministic(t *testing.T) {
	classifier := NewLexicalClassifier(domain.DefaultKeywordDictionary())
	rec := domain.TextRecord{ID: "q1", Text: "fertilizer for maize and beans during drought"}

	first := classifier.Classify(rec)
	for i := 0; i < 50; i++ {
		if got := classifier.Classify(rec); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %+v != %+v", i, got, first)
		}
	}
}

// TestLexicalClassifyNonASCII tests that malformed or non-Latin input is
// handled without error.
func TestLexicalClassifyNonASCII(t *testing.T) {
	classifier := NewLexicalClassifier(domain.DefaultKeywordDictionary())

	for _, text := range []string{
		"mahindi yangu yana wadudu \xc3\x28",
		"????? ??????",
		"🌽🌽🌽",
	} {
		got := classifier.Classify(domain.TextRecord{ID: "x", Text: text})
		if !got.Label.Valid() {
			t.Errorf("Classify(%q) produced invalid label %q", text, got.Label)
		}
	}
}

// TestClassifyPrioritized tests the prioritized policy delegation and the
// unclassified degenerate case.
func TestClassifyPrioritized(t *testing.T) {
	classifier := NewLexicalClassifier(domain.DefaultKeywordDictionary())
	schedule := domain.DefaultPrioritySchedule()

	got := classifier.ClassifyPrioritized(domain.TextRecord{ID: "q1", Text: "aphid attack on my kale"}, schedule)
	if got.Tier != "immediate_risk" || got.Category != "pest" {
		t.Errorf("assignment = %+v, want immediate_risk/pest", got)
	}

	got = classifier.ClassifyPrioritized(domain.TextRecord{ID: "q2", Text: "thank you"}, schedule)
	if got.Category != domain.Unclassified || got.Tier != "" {
		t.Errorf("assignment = %+v, want unclassified", got)
	}
}

// TestPriorityMonotonicity tests that adding a higher-tier term to a text
// never moves its assignment to a lower tier.
func TestPriorityMonotonicity(t *testing.T) {
	classifier := NewLexicalClassifier(domain.DefaultKeywordDictionary())
	schedule := domain.DefaultPrioritySchedule()

	base := classifier.ClassifyPrioritized(domain.TextRecord{ID: "a", Text: "best market price for produce"}, schedule)
	if base.Tier != "administrative" {
		t.Fatalf("base tier = %q, want administrative", base.Tier)
	}

	augmented := classifier.ClassifyPrioritized(domain.TextRecord{ID: "b", Text: "best market price for produce hit by blight"}, schedule)
	if augmented.Tier != "immediate_risk" {
		t.Errorf("augmented tier = %q, want immediate_risk", augmented.Tier)
	}
}
