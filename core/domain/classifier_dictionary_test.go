package domain

import (
	"reflect"
	"testing"
)

// TestDictionaryMatch tests substring matching against category term sets.
func TestDictionaryMatch(t *testing.T) {
	dict, err := NewDictionary(NamespaceCrop, []Category{
		{Name: "cereals", Terms: []string{"maize", "rice"}},
		{Name: "legumes", Terms: []string{"bean", "groundnut"}},
	})
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single category match",
			text: "How do I plant maize?",
			want: []string{"cereals"},
		},
		{
			name: "matching is case insensitive",
			text: "MAIZE spacing advice",
			want: []string{"cereals"},
		},
		{
			name: "two categories in declaration order",
			text: "intercropping beans with maize",
			want: []string{"cereals", "legumes"},
		},
		{
			name: "one category reported once despite two terms",
			text: "maize or rice this season?",
			want: []string{"cereals"},
		},
		{
			name: "no match",
			text: "my tractor broke down",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dict.Match(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// TestDictionaryValidation tests construction-time rejection of bad data.
func TestDictionaryValidation(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		wantErr    bool
	}{
		{
			name:       "no categories",
			categories: nil,
			wantErr:    true,
		},
		{
			name:       "empty category name",
			categories: []Category{{Name: "  ", Terms: []string{"maize"}}},
			wantErr:    true,
		},
		{
			name:       "category without terms",
			categories: []Category{{Name: "cereals", Terms: nil}},
			wantErr:    true,
		},
		{
			name:       "empty term",
			categories: []Category{{Name: "cereals", Terms: []string{"maize", " "}}},
			wantErr:    true,
		},
		{
			name: "term under two categories",
			categories: []Category{
				{Name: "cereals", Terms: []string{"maize"}},
				{Name: "staples", Terms: []string{"maize"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate category name",
			categories: []Category{
				{Name: "cereals", Terms: []string{"maize"}},
				{Name: "cereals", Terms: []string{"rice"}},
			},
			wantErr: true,
		},
		{
			name: "same category listing a term twice is tolerated",
			categories: []Category{
				{Name: "cereals", Terms: []string{"maize", "Maize"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDictionary(NamespaceCrop, tt.categories)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDictionary() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestDictionaryMatchTerms tests deduplicated term extraction.
func TestDictionaryMatchTerms(t *testing.T) {
	dict := DefaultKeywordDictionary()

	got := dict.Crop().MatchTerms("my maize and beans, mostly maize")
	want := []string{"maize", "bean"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchTerms = %v, want %v", got, want)
	}
}

// TestKeywordDictionaryNamespaces tests that the pair enforces namespaces.
func TestKeywordDictionaryNamespaces(t *testing.T) {
	crop, _ := NewDictionary(NamespaceCrop, []Category{{Name: "cereals", Terms: []string{"maize"}}})
	general, _ := NewDictionary(NamespaceGeneral, []Category{{Name: "soil", Terms: []string{"soil"}}})

	if _, err := NewKeywordDictionary(crop, general); err != nil {
		t.Fatalf("NewKeywordDictionary: %v", err)
	}
	if _, err := NewKeywordDictionary(general, crop); err == nil {
		t.Error("expected error for swapped namespaces")
	}
	if _, err := NewKeywordDictionary(crop, nil); err == nil {
		t.Error("expected error for missing namespace")
	}
}

// TestKeywordDictionaryOverlap tests cross-namespace overlap reporting.
func TestKeywordDictionaryOverlap(t *testing.T) {
	crop, _ := NewDictionary(NamespaceCrop, []Category{
		{Name: "aquaculture", Terms: []string{"fish", "pond"}},
	})
	general, _ := NewDictionary(NamespaceGeneral, []Category{
		{Name: "water", Terms: []string{"water", "pond"}},
	})
	kd, err := NewKeywordDictionary(crop, general)
	if err != nil {
		t.Fatalf("NewKeywordDictionary: %v", err)
	}

	want := []string{"pond"}
	if got := kd.Overlap(); !reflect.DeepEqual(got, want) {
		t.Errorf("Overlap() = %v, want %v", got, want)
	}
}

// TestDefaultDictionaries tests that the built-in data loads.
func TestDefaultDictionaries(t *testing.T) {
	dict := DefaultKeywordDictionary()

	if got := len(dict.Crop().Categories()); got != 9 {
		t.Errorf("crop categories = %d, want 9", got)
	}
	if got := len(dict.General().Categories()); got != 9 {
		t.Errorf("general categories = %d, want 9", got)
	}

	if cat, ok := dict.Crop().CategoryOf("tilapia"); !ok || cat != "aquaculture" {
		t.Errorf("CategoryOf(tilapia) = %q, %v", cat, ok)
	}
}
