package classification

import (
	"context"
	"sync/atomic"
	"time"

	"classifier_server/core/domain"
	"classifier_server/pkg/cache"
	"classifier_server/pkg/metrics"
	"classifier_server/pkg/ratelimit"

	"github.com/go-pkgz/pool"
	"github.com/rs/zerolog"
)

// =============================================================================
// Hybrid Router
// =============================================================================

// LLMStage is the slow path the router invokes for lexically unresolved
// records. *llm.Client satisfies it; tests substitute fakes.
type LLMStage interface {
	Classify(ctx context.Context, rec domain.TextRecord) domain.ClassificationResult
}

// RouterConfig holds hybrid router configuration.
type RouterConfig struct {
	// MaxLLMCalls caps external calls per batch. 0 = unlimited.
	MaxLLMCalls int

	// LLMConcurrency caps in-flight external calls (default: 4).
	LLMConcurrency int

	// CostPerCallUSD is the per-call estimate for batch cost reporting
	// (default: 0.0001).
	CostPerCallUSD float64
}

// DefaultRouterConfig returns the default configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		MaxLLMCalls:    0,
		LLMConcurrency: 4,
		CostPerCallUSD: 0.0001,
	}
}

// HybridRouter minimizes external-service calls by pre-filtering with the
// lexical classifier: only records the dictionaries leave unknown reach the
// LLM. A record the lexical stage resolved is never re-classified.
type HybridRouter struct {
	lexical   *LexicalClassifier
	llm       LLMStage
	limiter   *ratelimit.Limiter
	config    *RouterConfig
	cache     *cache.ResultCache
	latencies *metrics.StageLatencies
	log       zerolog.Logger
}

// NewHybridRouter creates a router. llm may be nil (lexical-only operation:
// unknowns stay unknown with source llm_error); limiter may be nil (no rate
// limiting).
func NewHybridRouter(lexical *LexicalClassifier, llm LLMStage, limiter *ratelimit.Limiter, config *RouterConfig, log zerolog.Logger) *HybridRouter {
	if config == nil {
		config = DefaultRouterConfig()
	}
	if config.LLMConcurrency <= 0 {
		config.LLMConcurrency = 4
	}
	if config.CostPerCallUSD <= 0 {
		config.CostPerCallUSD = 0.0001
	}
	return &HybridRouter{
		lexical: lexical,
		llm:     llm,
		limiter: limiter,
		config:  config,
		log:     log.With().Str("component", "hybrid_router").Logger(),
	}
}

// WithCache attaches a result cache; cached questions skip the paid call.
func (r *HybridRouter) WithCache(c *cache.ResultCache) *HybridRouter {
	r.cache = c
	return r
}

// WithLatencies attaches a per-stage latency registry.
func (r *HybridRouter) WithLatencies(m *metrics.StageLatencies) *HybridRouter {
	r.latencies = m
	return r
}

// ClassifyBatch classifies every record and returns exactly one result per
// input, in input order, plus batch statistics. The batch never aborts: budget
// or rate exhaustion, a cancelled context, or a dead external service degrade
// the affected records to llm_error, and the stats report how many were
// short-circuited.
func (r *HybridRouter) ClassifyBatch(ctx context.Context, records []domain.TextRecord) ([]domain.ClassificationResult, *BatchStats) {
	start := time.Now()

	results := make([]domain.ClassificationResult, len(records))
	var needsLLM []int

	// Stage 1: lexical pass over the full batch. Cheap, pure, no I/O.
	lexStart := time.Now()
	for i, rec := range records {
		results[i] = r.lexical.Classify(rec)
		if results[i].Label == domain.LabelUnknown {
			needsLLM = append(needsLLM, i)
		}
	}
	if r.latencies != nil {
		r.latencies.Record("lexical", time.Since(lexStart))
	}

	// Stage 2: LLM pass over the unknowns only.
	var llmCalls, shortCircuited, cacheHits int64
	if len(needsLLM) > 0 && r.llm != nil {
		llmCalls, shortCircuited, cacheHits = r.runLLMStage(ctx, records, results, needsLLM)
	} else if len(needsLLM) > 0 {
		// No LLM stage configured: unknowns are terminal.
		for _, i := range needsLLM {
			results[i] = llmErrorResult(records[i].ID)
		}
		shortCircuited = int64(len(needsLLM))
	}

	stats := r.buildStats(records, results, llmCalls, shortCircuited, cacheHits, time.Since(start))

	r.log.Info().
		Int("total", stats.Total).
		Int("lexical_resolved", stats.LexicalResolved).
		Int64("llm_calls", stats.LLMCalls).
		Int64("cache_hits", stats.CacheHits).
		Int64("short_circuited", stats.ShortCircuited).
		Int64("elapsed_ms", stats.ElapsedMs).
		Msg("batch classified")

	return results, stats
}

// llmWorker runs the LLM stage for one record index. Implements the
// go-pkgz/pool worker interface; each index owns its result slot, so workers
// never contend on shared state beyond the atomic counters.
type llmWorker struct {
	router  *HybridRouter
	records []domain.TextRecord
	results []domain.ClassificationResult
	budget  *ratelimit.CallBudget
	calls   *int64
	skipped *int64
	hits    *int64
}

// Do classifies one unresolved record, or degrades it to llm_error when the
// budget, rate limit, or context forbids the call.
func (w *llmWorker) Do(ctx context.Context, idx int) error {
	rec := w.records[idx]

	if ctx.Err() != nil {
		w.results[idx] = llmErrorResult(rec.ID)
		atomic.AddInt64(w.skipped, 1)
		return nil
	}

	// Cache hit costs nothing and does not touch the budget.
	if w.router.cache != nil {
		if res, ok := w.router.cache.Get(ctx, rec.ID, rec.Text); ok {
			w.results[idx] = res
			atomic.AddInt64(w.hits, 1)
			return nil
		}
	}

	if !w.budget.Acquire() {
		w.results[idx] = llmErrorResult(rec.ID)
		atomic.AddInt64(w.skipped, 1)
		return nil
	}

	if w.router.limiter != nil {
		if err := w.router.limiter.Wait(ctx, "llm"); err != nil {
			w.results[idx] = llmErrorResult(rec.ID)
			atomic.AddInt64(w.skipped, 1)
			return nil
		}
	}

	atomic.AddInt64(w.calls, 1)
	callStart := time.Now()
	res := w.router.llm.Classify(ctx, rec)
	if w.router.latencies != nil {
		w.router.latencies.Record("llm", time.Since(callStart))
	}

	w.results[idx] = res
	if w.router.cache != nil {
		w.router.cache.Put(ctx, rec.Text, res)
	}
	return nil
}

// runLLMStage fans the unresolved indices out over a worker pool sized to the
// concurrency cap. Returns (calls issued, records short-circuited).
func (r *HybridRouter) runLLMStage(ctx context.Context, records []domain.TextRecord, results []domain.ClassificationResult, needsLLM []int) (int64, int64, int64) {
	var calls, skipped, hits int64

	worker := &llmWorker{
		router:  r,
		records: records,
		results: results,
		budget:  ratelimit.NewCallBudget(r.config.MaxLLMCalls),
		calls:   &calls,
		skipped: &skipped,
		hits:    &hits,
	}

	p := pool.New[int](r.config.LLMConcurrency, worker).WithContinueOnError()
	if err := p.Go(ctx); err != nil {
		r.log.Error().Err(err).Msg("failed to start LLM worker pool")
		for _, i := range needsLLM {
			results[i] = llmErrorResult(records[i].ID)
		}
		return 0, int64(len(needsLLM)), 0
	}

	for _, i := range needsLLM {
		p.Submit(i)
	}

	// Close drains the queue; pool shutdown must not inherit batch
	// cancellation or submitted work would be lost mid-flight.
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := p.Close(closeCtx); err != nil {
		r.log.Warn().Err(err).Msg("LLM worker pool close")
	}

	// A cancelled context can leave slots untouched; those records are
	// reported, never silently dropped.
	for _, i := range needsLLM {
		if results[i].Source == domain.SourceLexical {
			results[i] = llmErrorResult(records[i].ID)
			atomic.AddInt64(&skipped, 1)
		}
	}

	return calls, skipped, hits
}

func llmErrorResult(recordID string) domain.ClassificationResult {
	return domain.ClassificationResult{
		RecordID: recordID,
		Label:    domain.LabelUnknown,
		Source:   domain.SourceLLMError,
	}
}
