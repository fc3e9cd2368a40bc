package domain

import (
	"fmt"
	"strings"
)

// =============================================================================
// Keyword Dictionaries
// =============================================================================

// Namespace separates the two term-to-category dictionaries.
type Namespace string

const (
	NamespaceCrop    Namespace = "crop"
	NamespaceGeneral Namespace = "general"
)

// Category is one named category with its trigger terms. Declaration order of
// categories is significant for the prioritized policy and is preserved.
type Category struct {
	Name  string
	Terms []string
}

// Dictionary is an ordered mapping from category name to a set of lowercase
// trigger terms within a single namespace. Dictionaries are built once and
// immutable afterwards; matching is plain substring containment on the
// lowercased text, no fuzzy or token-boundary matching.
type Dictionary struct {
	namespace  Namespace
	categories []Category
	termOwner  map[string]string // term -> category name, for duplicate detection
}

// NewDictionary validates and builds a dictionary. It rejects categories with
// empty names or empty term sets, and rejects a term appearing under two
// categories of the same namespace. Terms are lowercased and trimmed.
func NewDictionary(ns Namespace, categories []Category) (*Dictionary, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("dictionary %q: no categories", ns)
	}

	d := &Dictionary{
		namespace: ns,
		termOwner: make(map[string]string),
	}

	seen := make(map[string]bool)
	for _, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("dictionary %q: category with empty name", ns)
		}
		if seen[name] {
			return nil, fmt.Errorf("dictionary %q: duplicate category %q", ns, name)
		}
		seen[name] = true

		if len(cat.Terms) == 0 {
			return nil, fmt.Errorf("dictionary %q: category %q has no terms", ns, name)
		}

		normalized := make([]string, 0, len(cat.Terms))
		for _, term := range cat.Terms {
			t := strings.ToLower(strings.TrimSpace(term))
			if t == "" {
				return nil, fmt.Errorf("dictionary %q: category %q has an empty term", ns, name)
			}
			if owner, ok := d.termOwner[t]; ok {
				if owner == name {
					continue // same category listed the term twice, drop the duplicate
				}
				return nil, fmt.Errorf("dictionary %q: term %q appears under both %q and %q", ns, t, owner, name)
			}
			d.termOwner[t] = name
			normalized = append(normalized, t)
		}

		d.categories = append(d.categories, Category{Name: name, Terms: normalized})
	}

	return d, nil
}

// Namespace returns the dictionary namespace.
func (d *Dictionary) Namespace() Namespace {
	return d.namespace
}

// Categories returns the category names in declaration order.
func (d *Dictionary) Categories() []string {
	names := make([]string, len(d.categories))
	for i, cat := range d.categories {
		names[i] = cat.Name
	}
	return names
}

// Match returns every category whose term set matches the text, in category
// declaration order. The text is lowercased here; callers pass raw text.
// Zero matches returns an empty (nil) slice, never an error.
func (d *Dictionary) Match(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var matched []string
	for _, cat := range d.categories {
		for _, term := range cat.Terms {
			if strings.Contains(lower, term) {
				matched = append(matched, cat.Name)
				break
			}
		}
	}
	return matched
}

// MatchTerms returns the individual terms found in the text, in declaration
// order, deduplicated. Used for crop mention statistics and the fallback model.
func (d *Dictionary) MatchTerms(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var matched []string
	seen := make(map[string]bool)
	for _, cat := range d.categories {
		for _, term := range cat.Terms {
			if !seen[term] && strings.Contains(lower, term) {
				seen[term] = true
				matched = append(matched, term)
			}
		}
	}
	return matched
}

// CategoryOf returns the category owning a term, if any.
func (d *Dictionary) CategoryOf(term string) (string, bool) {
	owner, ok := d.termOwner[strings.ToLower(term)]
	return owner, ok
}

// =============================================================================
// KeywordDictionary - the two-namespace pair
// =============================================================================

// KeywordDictionary holds the crop and general dictionaries. It is built once
// at startup and shared read-only across all classifier invocations.
type KeywordDictionary struct {
	crop    *Dictionary
	general *Dictionary
}

// NewKeywordDictionary pairs the two namespaces. Cross-namespace term overlap
// is permitted (a term may be both a crop and a general trigger) but is a
// known ambiguity; callers should log Overlap() at startup.
func NewKeywordDictionary(crop, general *Dictionary) (*KeywordDictionary, error) {
	if crop == nil || general == nil {
		return nil, fmt.Errorf("keyword dictionary: both namespaces are required")
	}
	if crop.namespace != NamespaceCrop {
		return nil, fmt.Errorf("keyword dictionary: expected %q namespace, got %q", NamespaceCrop, crop.namespace)
	}
	if general.namespace != NamespaceGeneral {
		return nil, fmt.Errorf("keyword dictionary: expected %q namespace, got %q", NamespaceGeneral, general.namespace)
	}
	return &KeywordDictionary{crop: crop, general: general}, nil
}

// Match dispatches to the namespace dictionary.
func (k *KeywordDictionary) Match(text string, ns Namespace) []string {
	switch ns {
	case NamespaceCrop:
		return k.crop.Match(text)
	case NamespaceGeneral:
		return k.general.Match(text)
	}
	return nil
}

// Crop returns the crop-namespace dictionary.
func (k *KeywordDictionary) Crop() *Dictionary {
	return k.crop
}

// General returns the general-namespace dictionary.
func (k *KeywordDictionary) General() *Dictionary {
	return k.general
}

// Overlap returns terms present in both namespaces, in crop declaration order.
// Overlapping terms make the mixed label partly an artifact of dictionary
// design; they are reported, not rejected.
func (k *KeywordDictionary) Overlap() []string {
	var overlap []string
	for _, cat := range k.crop.categories {
		for _, term := range cat.Terms {
			if _, ok := k.general.termOwner[term]; ok {
				overlap = append(overlap, term)
			}
		}
	}
	return overlap
}
