// Package bootstrap wires configuration, dependencies, and the HTTP app.
package bootstrap

import (
	"context"
	"time"

	"classifier_server/config"
	"classifier_server/core/agent/llm"
	"classifier_server/core/domain"
	"classifier_server/core/service/classification"
	"classifier_server/pkg/cache"
	"classifier_server/pkg/logger"
	"classifier_server/pkg/metrics"
	"classifier_server/pkg/ratelimit"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Dependencies holds every constructed component.
type Dependencies struct {
	Log zerolog.Logger

	Dict     *domain.KeywordDictionary
	Schedule *domain.PrioritySchedule

	Lexical   *classification.LexicalClassifier
	LLM       *llm.Client
	Costs     *llm.CostTracker
	Limiter   *ratelimit.Limiter
	Router    *classification.HybridRouter
	Latencies *metrics.StageLatencies

	Redis *redis.Client
}

// NewDependencies builds the full dependency graph. Returns a cleanup
// function to run at shutdown.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	zlog := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "classifier",
	})

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Dictionaries
	dict := domain.DefaultKeywordDictionary()
	if overlap := dict.Overlap(); len(overlap) > 0 {
		zlog.Warn().
			Strs("terms", overlap).
			Msg("terms present in both crop and general dictionaries; mixed labels may be dictionary artifacts")
	}
	schedule := domain.DefaultPrioritySchedule()

	// Redis (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("invalid REDIS_URL; rate limiter will use local fallback")
		} else {
			redisClient = redis.NewClient(opt)
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				zlog.Warn().Err(err).Msg("redis unreachable; rate limiter will use local fallback")
			} else {
				zlog.Info().Msg("redis connected")
			}
			cancel()
			cleanups = append(cleanups, func() { redisClient.Close() })
		}
	}

	// Classifiers
	lexical := classification.NewLexicalClassifier(dict)
	fallback := llm.NewLexicalFallback(dict, schedule)
	costs := llm.NewCostTracker()

	llmClient := llm.NewClient(llm.ClientConfig{
		APIKey:    cfg.GroqAPIKey,
		BaseURL:   cfg.LLMBaseURL,
		Model:     cfg.LLMModel,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   time.Duration(cfg.LLMTimeoutSec) * time.Second,
	}, fallback, costs, zlog)

	limiter := ratelimit.New(redisClient, &ratelimit.Config{
		RequestsPerMinute: cfg.LLMRequestsPerMinute,
		BurstSize:         cfg.LLMBurstSize,
	})

	latencies := metrics.NewStageLatencies(1000)
	resultCache := cache.NewResultCache(redisClient, 0)

	router := classification.NewHybridRouter(lexical, llmClient, limiter, &classification.RouterConfig{
		MaxLLMCalls:    cfg.LLMMaxCallsPerBatch,
		LLMConcurrency: cfg.LLMConcurrency,
		CostPerCallUSD: costs.PerCallUSD(),
	}, zlog).
		WithCache(resultCache).
		WithLatencies(latencies)

	zlog.Info().
		Bool("llm_enabled", llmClient.Enabled()).
		Str("model", cfg.LLMModel).
		Int("max_calls_per_batch", cfg.LLMMaxCallsPerBatch).
		Int("requests_per_minute", cfg.LLMRequestsPerMinute).
		Msg("classification pipeline initialized")

	return &Dependencies{
		Log:       zlog,
		Dict:      dict,
		Schedule:  schedule,
		Lexical:   lexical,
		LLM:       llmClient,
		Costs:     costs,
		Limiter:   limiter,
		Router:    router,
		Latencies: latencies,
		Redis:     redisClient,
	}, cleanup, nil
}
