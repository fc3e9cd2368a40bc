package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestTokenBucketExhaustion tests that the bucket grants rate+burst calls and
// then denies with a positive retry hint.
func TestTokenBucketExhaustion(t *testing.T) {
	bucket := newTokenBucket(6, 4)

	for i := 0; i < 10; i++ {
		allowed, _ := bucket.allow()
		if !allowed {
			t.Fatalf("call %d should be allowed", i)
		}
	}

	allowed, wait := bucket.allow()
	if allowed {
		t.Error("call beyond capacity should be denied")
	}
	if wait <= 0 {
		t.Errorf("retry hint = %v, want positive", wait)
	}
}

// TestTokenBucketRefill tests refill after the clock advances.
func TestTokenBucketRefill(t *testing.T) {
	bucket := newTokenBucket(60, 0)
	bucket.tokens = 0
	bucket.lastRefill = time.Now().Unix() - 2 // 2s at 60/min = 2 tokens

	allowed, _ := bucket.allow()
	if !allowed {
		t.Fatal("refilled token should be granted")
	}
	allowed, _ = bucket.allow()
	if !allowed {
		t.Fatal("second refilled token should be granted")
	}
	bucket.lastRefill = time.Now().Unix() + 1 // pin the clock, no refill below
	allowed, _ = bucket.allow()
	if allowed {
		t.Error("third call should exceed the refill")
	}
}

// TestTokenBucketCap tests that refill never exceeds capacity.
func TestTokenBucketCap(t *testing.T) {
	bucket := newTokenBucket(60, 10)
	bucket.lastRefill = time.Now().Unix() - 3600

	bucket.allow()
	if bucket.tokens > bucket.maxTokens {
		t.Errorf("tokens = %d, cap is %d", bucket.tokens, bucket.maxTokens)
	}
}

// TestLimiterLocalFallback tests limiter behavior without a Redis client.
func TestLimiterLocalFallback(t *testing.T) {
	limiter := New(nil, &Config{RequestsPerMinute: 2, BurstSize: 1})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow(ctx, "llm")
		if !allowed {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if allowed, _ := limiter.Allow(ctx, "llm"); allowed {
		t.Error("fourth call should be denied")
	}
}

// TestLimiterWaitCancellation tests that Wait honors context cancellation
// instead of spinning on a drained bucket.
func TestLimiterWaitCancellation(t *testing.T) {
	limiter := New(nil, &Config{RequestsPerMinute: 1, BurstSize: 0})

	ctx := context.Background()
	if err := limiter.Wait(ctx, "llm"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(cancelCtx, "llm"); err == nil {
		t.Error("wait on a drained bucket should return the context error")
	}
}

// TestLimiterDefaults tests nil-config construction.
func TestLimiterDefaults(t *testing.T) {
	limiter := New(nil, nil)
	if limiter.rate != 30 || limiter.burst != 10 {
		t.Errorf("defaults = %d/%d, want 30/10", limiter.rate, limiter.burst)
	}
}

// TestCallBudgetCap tests the atomic increment-and-check with rollback.
func TestCallBudgetCap(t *testing.T) {
	budget := NewCallBudget(3)

	for i := 0; i < 3; i++ {
		if !budget.Acquire() {
			t.Fatalf("acquire %d should succeed", i)
		}
	}
	if budget.Acquire() {
		t.Error("acquire beyond cap should fail")
	}
	if budget.Used() != 3 {
		t.Errorf("used = %d, want 3 after rollback", budget.Used())
	}
	if !budget.Exhausted() {
		t.Error("budget should report exhausted")
	}
}

// TestCallBudgetUnlimited tests that max <= 0 never denies.
func TestCallBudgetUnlimited(t *testing.T) {
	budget := NewCallBudget(0)
	for i := 0; i < 100; i++ {
		if !budget.Acquire() {
			t.Fatal("unlimited budget should always acquire")
		}
	}
	if budget.Exhausted() {
		t.Error("unlimited budget never exhausts")
	}
}

// TestCallBudgetConcurrent tests the cap under contention.
func TestCallBudgetConcurrent(t *testing.T) {
	budget := NewCallBudget(50)

	var wg sync.WaitGroup
	granted := make([]int, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if budget.Acquire() {
					granted[g]++
				}
			}
		}(g)
	}
	wg.Wait()

	total := 0
	for _, n := range granted {
		total += n
	}
	if total != 50 {
		t.Errorf("granted = %d, want exactly 50", total)
	}
	if budget.Used() != 50 {
		t.Errorf("used = %d, want 50", budget.Used())
	}
}
