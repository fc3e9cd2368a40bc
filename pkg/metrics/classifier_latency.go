// Package metrics provides latency tracking with percentile calculations.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// LatencyTracker tracks durations in a sliding sample window and reports
// percentiles over the retained samples.
type LatencyTracker struct {
	mu         sync.Mutex
	samples    []int64 // microseconds
	maxSamples int
	sorted     bool
}

// NewLatencyTracker creates a tracker keeping up to windowSize samples.
func NewLatencyTracker(windowSize int) *LatencyTracker {
	if windowSize <= 0 {
		windowSize = 1000
	}
	return &LatencyTracker{
		samples:    make([]int64, 0, windowSize),
		maxSamples: windowSize,
	}
}

// Record adds one measurement.
func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if len(lt.samples) >= lt.maxSamples {
		// Drop the oldest 10% in one shift instead of one at a time.
		removeCount := lt.maxSamples / 10
		if removeCount < 1 {
			removeCount = 1
		}
		lt.samples = lt.samples[removeCount:]
	}

	lt.samples = append(lt.samples, d.Microseconds())
	lt.sorted = false
}

// LatencyStats summarizes the retained window.
type LatencyStats struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Avg   time.Duration `json:"avg"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
}

// Stats computes the current statistics.
func (lt *LatencyTracker) Stats() LatencyStats {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	n := len(lt.samples)
	if n == 0 {
		return LatencyStats{}
	}

	if !lt.sorted {
		sort.Slice(lt.samples, func(i, j int) bool { return lt.samples[i] < lt.samples[j] })
		lt.sorted = true
	}

	var sum int64
	for _, v := range lt.samples {
		sum += v
	}

	return LatencyStats{
		Count: int64(n),
		Min:   time.Duration(lt.samples[0]) * time.Microsecond,
		Max:   time.Duration(lt.samples[n-1]) * time.Microsecond,
		Avg:   time.Duration(sum/int64(n)) * time.Microsecond,
		P50:   lt.percentile(0.50),
		P95:   lt.percentile(0.95),
		P99:   lt.percentile(0.99),
	}
}

// percentile requires the lock held and samples sorted.
func (lt *LatencyTracker) percentile(p float64) time.Duration {
	n := len(lt.samples)
	if n == 0 {
		return 0
	}
	idx := int(p * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return time.Duration(lt.samples[idx]) * time.Microsecond
}

// StageLatencies tracks one tracker per pipeline stage.
type StageLatencies struct {
	mu     sync.Mutex
	stages map[string]*LatencyTracker
	window int
}

// NewStageLatencies creates a per-stage registry with a shared window size.
func NewStageLatencies(windowSize int) *StageLatencies {
	return &StageLatencies{
		stages: make(map[string]*LatencyTracker),
		window: windowSize,
	}
}

// Record adds one measurement under a stage name.
func (s *StageLatencies) Record(stage string, d time.Duration) {
	s.mu.Lock()
	lt, ok := s.stages[stage]
	if !ok {
		lt = NewLatencyTracker(s.window)
		s.stages[stage] = lt
	}
	s.mu.Unlock()

	lt.Record(d)
}

// Snapshot returns the stats of every stage.
func (s *StageLatencies) Snapshot() map[string]LatencyStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]LatencyStats, len(s.stages))
	for name, lt := range s.stages {
		out[name] = lt.Stats()
	}
	return out
}
