package domain

import (
	"fmt"
	"strings"
)

// =============================================================================
// Prioritized Policy Schedule
// =============================================================================

// Unclassified is the degenerate assignment of the prioritized policy.
const Unclassified = "unclassified"

// PriorityTier is one tier of the prioritized first-match-wins policy.
// Tier order and category order within a tier are both significant.
type PriorityTier struct {
	Name       string
	Categories []Category
}

// PrioritySchedule is an ordered list of tiers. The prioritized policy walks
// tiers in declared order and, within a tier, categories in declared order;
// the first category whose term set matches wins. Changing declaration order
// changes assignments, which is intended.
type PrioritySchedule struct {
	tiers []PriorityTier
}

// NewPrioritySchedule validates tier and category declarations. Category names
// must be unique across the whole schedule; term sets must be non-empty.
// Terms are lowercased and trimmed the same way dictionaries are.
func NewPrioritySchedule(tiers []PriorityTier) (*PrioritySchedule, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("priority schedule: no tiers")
	}

	seen := make(map[string]string) // category -> tier
	normalized := make([]PriorityTier, 0, len(tiers))
	for _, tier := range tiers {
		name := strings.TrimSpace(tier.Name)
		if name == "" {
			return nil, fmt.Errorf("priority schedule: tier with empty name")
		}
		if len(tier.Categories) == 0 {
			return nil, fmt.Errorf("priority schedule: tier %q has no categories", name)
		}

		cats := make([]Category, 0, len(tier.Categories))
		for _, cat := range tier.Categories {
			catName := strings.TrimSpace(cat.Name)
			if catName == "" {
				return nil, fmt.Errorf("priority schedule: tier %q has a category with an empty name", name)
			}
			if owner, ok := seen[catName]; ok {
				return nil, fmt.Errorf("priority schedule: category %q appears in both tier %q and tier %q", catName, owner, name)
			}
			seen[catName] = name
			if len(cat.Terms) == 0 {
				return nil, fmt.Errorf("priority schedule: category %q has no terms", catName)
			}

			terms := make([]string, 0, len(cat.Terms))
			for _, term := range cat.Terms {
				t := strings.ToLower(strings.TrimSpace(term))
				if t == "" {
					return nil, fmt.Errorf("priority schedule: category %q has an empty term", catName)
				}
				terms = append(terms, t)
			}
			cats = append(cats, Category{Name: catName, Terms: terms})
		}
		normalized = append(normalized, PriorityTier{Name: name, Categories: cats})
	}

	return &PrioritySchedule{tiers: normalized}, nil
}

// Tiers returns the tiers in declaration order.
func (s *PrioritySchedule) Tiers() []PriorityTier {
	return s.tiers
}

// Assign walks the tier x category sequence in declared order and returns the
// first matching tier and category. ok is false when nothing matches (callers
// report Unclassified). Empty text never matches.
func (s *PrioritySchedule) Assign(text string) (tier, category string, ok bool) {
	if text == "" {
		return "", "", false
	}
	lower := strings.ToLower(text)

	for _, t := range s.tiers {
		for _, cat := range t.Categories {
			for _, term := range cat.Terms {
				if strings.Contains(lower, term) {
					return t.Name, cat.Name, true
				}
			}
		}
	}
	return "", "", false
}

// DefaultPrioritySchedule is the built-in five-tier triage layout for farmer
// questions: acute problems first, then the topics that determine next-season
// outcomes, then technique, background knowledge, and commerce. Includes
// Swahili and Luganda trigger terms alongside English.
func DefaultPrioritySchedule() *PrioritySchedule {
	s, err := NewPrioritySchedule([]PriorityTier{
		{Name: "immediate_risk", Categories: []Category{
			{Name: "pest", Terms: []string{
				"pest", "insect", "bug", "aphid", "caterpillar", "worm", "beetle",
				"locust", "grasshopper", "termite", "wadudu", "mende",
				"infestation", "pesticide",
			}},
			{Name: "disease", Terms: []string{
				"disease", "fungus", "blight", "wilt", "rot", "mold", "virus",
				"bacterial", "infection", "ugonjwa", "obulwadde", "dying",
			}},
			{Name: "crop_stress", Terms: []string{
				"wilting", "yellowing", "stunted", "poor growth", "stress",
				"struggling", "not growing", "curling",
			}},
		}},
		{Name: "foundational_management", Categories: []Category{
			{Name: "soil", Terms: []string{
				"soil", "land", "udongo", "ettaka", "ph", "fertility", "tillage", "plowing",
			}},
			{Name: "water", Terms: []string{
				"water", "irrigation", "drought", "watering", "moisture", "maji", "amazzi", "ukame",
			}},
			{Name: "fertilizer", Terms: []string{
				"fertilizer", "manure", "compost", "nutrient", "nitrogen",
				"phosphorus", "potassium", "npk", "mbolea", "obugimusa",
			}},
		}},
		{Name: "technique", Categories: []Category{
			{Name: "planting", Terms: []string{
				"plant", "seed", "sowing", "germination", "nursery",
				"transplant", "spacing", "panda", "mbegu", "ensigo", "okusimba",
			}},
			{Name: "harvest", Terms: []string{
				"harvest", "mature", "maturity", "ripe", "yield",
				"mavuno", "okukungula", "amakungula",
			}},
		}},
		{Name: "conceptual", Categories: []Category{
			{Name: "weather", Terms: []string{
				"weather", "climate", "temperature", "frost", "rainfall",
				"hali ya hewa", "embeera y'obudde",
			}},
		}},
		{Name: "administrative", Categories: []Category{
			{Name: "market", Terms: []string{
				"market", "price", "sell", "buyer", "trade", "soko",
				"akatale", "profit", "income",
			}},
		}},
	})
	if err != nil {
		panic(fmt.Sprintf("built-in priority schedule: %v", err))
	}
	return s
}
