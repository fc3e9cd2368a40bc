package llm

import (
	"sync"
	"time"
)

// DefaultCostPerCallUSD is the flat per-call estimate used when no measured
// token accounting is available (Groq llama-3.3-70b, short classification
// prompts).
const DefaultCostPerCallUSD = 0.0001

// CostTracker accrues the monetary cost of primary LLM calls across batches.
// External calls are a scarce resource; the tracker gives callers the numbers
// to report cost per batch and per day without re-deriving them.
type CostTracker struct {
	mu         sync.RWMutex
	perCall    float64
	totalCalls int64
	totalCost  float64
	dailyCost  map[string]float64
	modelCalls map[string]int64
}

// NewCostTracker creates a tracker with the default per-call estimate.
func NewCostTracker() *CostTracker {
	return NewCostTrackerWithRate(DefaultCostPerCallUSD)
}

// NewCostTrackerWithRate creates a tracker with an explicit per-call estimate.
func NewCostTrackerWithRate(perCallUSD float64) *CostTracker {
	return &CostTracker{
		perCall:    perCallUSD,
		dailyCost:  make(map[string]float64),
		modelCalls: make(map[string]int64),
	}
}

// Track records one primary call and returns its estimated cost.
func (t *CostTracker) Track(model string) float64 {
	t.mu.Lock()
	t.totalCalls++
	t.totalCost += t.perCall
	today := time.Now().Format("2006-01-02")
	t.dailyCost[today] += t.perCall
	t.modelCalls[model]++
	t.mu.Unlock()
	return t.perCall
}

// CostStats is a snapshot of accrued usage.
type CostStats struct {
	TotalCalls        int64   `json:"total_calls"`
	EstimatedCostUSD  float64 `json:"estimated_cost_usd"`
	CostPerCallUSD    float64 `json:"cost_per_call_usd"`
	EstimatedTodayUSD float64 `json:"estimated_today_usd"`
}

// Stats returns the current snapshot.
func (t *CostTracker) Stats() CostStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	today := time.Now().Format("2006-01-02")
	return CostStats{
		TotalCalls:        t.totalCalls,
		EstimatedCostUSD:  t.totalCost,
		CostPerCallUSD:    t.perCall,
		EstimatedTodayUSD: t.dailyCost[today],
	}
}

// PerCallUSD returns the configured per-call estimate.
func (t *CostTracker) PerCallUSD() float64 {
	return t.perCall
}
