package metrics

import (
	"testing"
	"time"
)

func TestLatencyTrackerStats(t *testing.T) {
	tracker := NewLatencyTracker(100)
	for i := 1; i <= 100; i++ {
		tracker.Record(time.Duration(i) * time.Millisecond)
	}

	stats := tracker.Stats()
	if stats.Count != 100 {
		t.Errorf("count = %d, want 100", stats.Count)
	}
	if stats.Min != 1*time.Millisecond {
		t.Errorf("min = %v, want 1ms", stats.Min)
	}
	if stats.Max != 100*time.Millisecond {
		t.Errorf("max = %v, want 100ms", stats.Max)
	}
	if stats.P50 != 51*time.Millisecond {
		t.Errorf("p50 = %v, want 51ms", stats.P50)
	}
	if stats.P99 != 100*time.Millisecond {
		t.Errorf("p99 = %v, want 100ms", stats.P99)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	tracker := NewLatencyTracker(10)
	stats := tracker.Stats()
	if stats.Count != 0 || stats.P95 != 0 {
		t.Errorf("empty tracker stats = %+v, want zeroes", stats)
	}
}

// TestLatencyTrackerWindow tests that the window stays bounded and the oldest
// samples fall out first.
func TestLatencyTrackerWindow(t *testing.T) {
	tracker := NewLatencyTracker(10)
	for i := 1; i <= 11; i++ {
		tracker.Record(time.Duration(i) * time.Millisecond)
	}

	stats := tracker.Stats()
	if stats.Count != 10 {
		t.Errorf("count = %d, want 10 after eviction", stats.Count)
	}
	if stats.Min != 2*time.Millisecond {
		t.Errorf("min = %v, want 2ms after evicting the oldest", stats.Min)
	}
}

func TestStageLatencies(t *testing.T) {
	stages := NewStageLatencies(100)
	stages.Record("lexical", 2*time.Millisecond)
	stages.Record("lexical", 4*time.Millisecond)
	stages.Record("llm", 300*time.Millisecond)

	snap := stages.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d stages, want 2", len(snap))
	}
	if snap["lexical"].Count != 2 {
		t.Errorf("lexical count = %d, want 2", snap["lexical"].Count)
	}
	if snap["llm"].Max != 300*time.Millisecond {
		t.Errorf("llm max = %v, want 300ms", snap["llm"].Max)
	}
}
