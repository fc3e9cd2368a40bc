package domain

import (
	"testing"
)

// TestPriorityScheduleAssign tests first-match-wins over the tier order.
func TestPriorityScheduleAssign(t *testing.T) {
	schedule := DefaultPrioritySchedule()

	tests := []struct {
		name         string
		text         string
		wantTier     string
		wantCategory string
		wantOK       bool
	}{
		{
			name:         "pest beats soil when both match",
			text:         "aphids are destroying the soil cover on my farm",
			wantTier:     "immediate_risk",
			wantCategory: "pest",
			wantOK:       true,
		},
		{
			name:         "disease over planting",
			text:         "blight appeared after planting",
			wantTier:     "immediate_risk",
			wantCategory: "disease",
			wantOK:       true,
		},
		{
			name:         "swahili pest term",
			text:         "wadudu wameshambulia mahindi yangu",
			wantTier:     "immediate_risk",
			wantCategory: "pest",
			wantOK:       true,
		},
		{
			name:         "luganda soil term",
			text:         "ettaka lyange terikyagimuka",
			wantTier:     "foundational_management",
			wantCategory: "soil",
			wantOK:       true,
		},
		{
			name:         "market only",
			text:         "where can I sell my produce at a good price",
			wantTier:     "administrative",
			wantCategory: "market",
			wantOK:       true,
		},
		{
			name:   "no match",
			text:   "hello there",
			wantOK: false,
		},
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, category, ok := schedule.Assign(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Assign(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if tier != tt.wantTier || category != tt.wantCategory {
				t.Errorf("Assign(%q) = (%q, %q), want (%q, %q)",
					tt.text, tier, category, tt.wantTier, tt.wantCategory)
			}
		})
	}
}

// TestPriorityTierOrderWins tests that an earlier tier wins even when a later
// tier also matches.
func TestPriorityTierOrderWins(t *testing.T) {
	schedule, err := NewPrioritySchedule([]PriorityTier{
		{Name: "immediate_risk", Categories: []Category{{Name: "pest", Terms: []string{"pest"}}}},
		{Name: "technique", Categories: []Category{{Name: "planting", Terms: []string{"plant"}}}},
	})
	if err != nil {
		t.Fatalf("NewPrioritySchedule: %v", err)
	}

	tier, category, ok := schedule.Assign("pest affecting my plant")
	if !ok {
		t.Fatal("expected a match")
	}
	if tier != "immediate_risk" || category != "pest" {
		t.Errorf("Assign = (%q, %q), want (immediate_risk, pest)", tier, category)
	}
}

// TestPriorityScheduleValidation tests declaration checks.
func TestPriorityScheduleValidation(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []PriorityTier
		wantErr bool
	}{
		{
			name:    "no tiers",
			tiers:   nil,
			wantErr: true,
		},
		{
			name: "category repeated across tiers",
			tiers: []PriorityTier{
				{Name: "a", Categories: []Category{{Name: "pest", Terms: []string{"pest"}}}},
				{Name: "b", Categories: []Category{{Name: "pest", Terms: []string{"bug"}}}},
			},
			wantErr: true,
		},
		{
			name: "category without terms",
			tiers: []PriorityTier{
				{Name: "a", Categories: []Category{{Name: "pest", Terms: nil}}},
			},
			wantErr: true,
		},
		{
			name: "valid schedule",
			tiers: []PriorityTier{
				{Name: "a", Categories: []Category{{Name: "pest", Terms: []string{"Pest "}}}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrioritySchedule(tt.tiers)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPrioritySchedule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
