// Package llm wraps the external text-generation service used to classify the
// questions the keyword dictionaries cannot resolve.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const (
	// DefaultModel is the primary classification model on the Groq API.
	DefaultModel = "llama-3.3-70b-versatile"

	// defaultBaseURL is the Groq OpenAI-compatible endpoint.
	defaultBaseURL = "https://api.groq.com/openai/v1"

	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 200
)

// ErrNoCredential is returned by the primary path when no API key is
// configured. It routes every record to the fallback model instead of
// failing startup.
var ErrNoCredential = errors.New("llm: no API credential configured")

// ChatCompleter is the single call the client needs from the OpenAI-compatible
// SDK. *openai.Client satisfies it; tests substitute fakes.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ClientConfig holds LLM client configuration.
type ClientConfig struct {
	APIKey    string        // empty disables the primary path
	BaseURL   string        // default: Groq endpoint
	Model     string        // default: DefaultModel
	MaxTokens int           // default: 200
	Timeout   time.Duration // per-call timeout, default: 30s
}

// Client classifies a single question via the primary external service, with
// exactly one fallback attempt against a local model when the primary fails.
// The primary call is wrapped in a circuit breaker: once the service is
// failing consistently, remaining records skip straight to the fallback
// instead of accruing cost against a dead endpoint.
type Client struct {
	chat      ChatCompleter
	breaker   *gobreaker.CircuitBreaker
	fallback  Fallback
	costs     *CostTracker
	model     string
	maxTokens int
	timeout   time.Duration
	log       zerolog.Logger
}

// NewClient creates an LLM client. fallback may be nil (no secondary model);
// costs may be nil (no cost accrual).
func NewClient(cfg ClientConfig, fallback Fallback, costs *CostTracker, log zerolog.Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	var chat ChatCompleter
	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		oc.BaseURL = cfg.BaseURL
		if oc.BaseURL == "" {
			oc.BaseURL = defaultBaseURL
		}
		chat = openai.NewClientWithConfig(oc)
	} else {
		log.Warn().Msg("no LLM API key configured, all unresolved questions use the fallback model")
	}

	cbSettings := gobreaker.Settings{
		Name:        "llm-primary",
		MaxRequests: 3,                // requests allowed through in half-open state
		Interval:    60 * time.Second, // counter reset interval while closed
		Timeout:     30 * time.Second, // open duration before half-open
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("LLM circuit breaker state change")
		},
	}

	return &Client{
		chat:      chat,
		breaker:   gobreaker.NewCircuitBreaker(cbSettings),
		fallback:  fallback,
		costs:     costs,
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		log:       log.With().Str("component", "llm_client").Logger(),
	}
}

// NewClientWithCompleter creates a client over an explicit completer. Used by
// tests to inject fakes without an HTTP round trip.
func NewClientWithCompleter(chat ChatCompleter, fallback Fallback, costs *CostTracker, log zerolog.Logger) *Client {
	c := NewClient(ClientConfig{}, fallback, costs, log)
	c.chat = chat
	return c
}

// Enabled reports whether the primary path has a credential.
func (c *Client) Enabled() bool {
	return c.chat != nil
}

// Costs returns the cost tracker, which may be nil.
func (c *Client) Costs() *CostTracker {
	return c.costs
}
