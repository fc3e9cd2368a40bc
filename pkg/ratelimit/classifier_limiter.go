// Package ratelimit bounds the rate and count of paid external calls.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Limiter - sliding window (Redis) with local token bucket fallback
// =============================================================================

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int // sustained call rate (default: 30)
	BurstSize         int // extra calls allowed in a burst (default: 10)
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		RequestsPerMinute: 30,
		BurstSize:         10,
	}
}

// Limiter rate-limits external API calls. With a Redis client the limit is a
// sliding window shared across processes; without one it degrades to a local
// token bucket, which is the common single-process deployment.
type Limiter struct {
	redis  *redis.Client
	rate   int
	burst  int
	window time.Duration
	local  *tokenBucket
}

// New creates a limiter. redisClient may be nil.
func New(redisClient *redis.Client, cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Limiter{
		redis:  redisClient,
		rate:   cfg.RequestsPerMinute,
		burst:  cfg.BurstSize,
		window: time.Minute,
		local:  newTokenBucket(cfg.RequestsPerMinute, cfg.BurstSize),
	}
}

// Allow checks whether a call may proceed now. When denied it returns the
// duration to wait before the next attempt.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.redis == nil {
		return l.local.allow()
	}

	now := time.Now()
	windowStart := now.Add(-l.window)
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	// Lua script for atomic sliding window check
	script := redis.NewScript(`
		local key = KEYS[1]
		local now = tonumber(ARGV[1])
		local window_start = tonumber(ARGV[2])
		local max_requests = tonumber(ARGV[3])
		local window_ms = tonumber(ARGV[4])

		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		local count = redis.call('ZCARD', key)

		if count < max_requests then
			redis.call('ZADD', key, now, now .. '-' .. math.random())
			redis.call('PEXPIRE', key, window_ms * 2)
			return 1
		else
			local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
			if #oldest > 0 then
				return -(oldest[2] + window_ms - now)
			end
			return 0
		end
	`)

	result, err := script.Run(ctx, l.redis, []string{redisKey},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		l.rate+l.burst,
		l.window.Milliseconds(),
	).Int64()

	if err != nil {
		// Redis unavailable: fall back to the local bucket
		return l.local.allow()
	}

	if result == 1 {
		return true, 0
	}
	if result < 0 {
		return false, time.Duration(-result) * time.Millisecond
	}
	return false, l.window
}

// Wait blocks until a call is allowed or the context is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	for {
		allowed, wait := l.Allow(ctx, key)
		if allowed {
			return nil
		}
		if wait <= 0 {
			wait = 100 * time.Millisecond
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// =============================================================================
// Local Token Bucket
// =============================================================================

// tokenBucket refills at a per-minute rate, up to rate+burst tokens.
type tokenBucket struct {
	tokens     int64
	maxTokens  int64
	refillRate int64 // tokens per minute
	lastRefill int64 // unix seconds
	mu         sync.Mutex
}

func newTokenBucket(requestsPerMinute, burst int) *tokenBucket {
	max := int64(requestsPerMinute + burst)
	return &tokenBucket{
		tokens:     max,
		maxTokens:  max,
		refillRate: int64(requestsPerMinute),
		lastRefill: time.Now().Unix(),
	}
}

func (b *tokenBucket) allow() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now().Unix()
	elapsed := now - b.lastRefill
	if elapsed > 0 {
		refill := elapsed * b.refillRate / 60
		if refill > 0 {
			b.tokens = minInt64(b.maxTokens, b.tokens+refill)
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	// Time until one token refills
	if b.refillRate <= 0 {
		return false, time.Minute
	}
	return false, time.Duration(60/b.refillRate+1) * time.Second
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// =============================================================================
// CallBudget - hard cap on paid calls per batch
// =============================================================================

// CallBudget caps the number of external calls for one batch. Acquire uses an
// atomic increment-and-check so concurrent workers cannot exceed the cap.
type CallBudget struct {
	max  int64
	used int64 // atomic
}

// NewCallBudget creates a budget. max <= 0 means unlimited.
func NewCallBudget(max int) *CallBudget {
	return &CallBudget{max: int64(max)}
}

// Acquire reserves one call. Returns false once the budget is exhausted; the
// reservation is rolled back in that case so Used never exceeds the cap.
func (b *CallBudget) Acquire() bool {
	if b.max <= 0 {
		atomic.AddInt64(&b.used, 1)
		return true
	}
	if atomic.AddInt64(&b.used, 1) > b.max {
		atomic.AddInt64(&b.used, -1)
		return false
	}
	return true
}

// Used returns the number of reserved calls.
func (b *CallBudget) Used() int64 {
	return atomic.LoadInt64(&b.used)
}

// Exhausted reports whether the budget has been fully consumed.
func (b *CallBudget) Exhausted() bool {
	return b.max > 0 && atomic.LoadInt64(&b.used) >= b.max
}
