package services

import (
	"context"
	"testing"
	"time"

	"petcare/pkg/cache"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestWindowRateLimiter(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	limiter := NewWindowRateLimiter(cache.NewMemoryStore().WithClock(clock.Now), 2, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		result, err := limiter.CheckRateLimit(ctx, "ip:1.2.3.4")
		if err != nil || !result.Allowed || result.Count != int64(i) {
			t.Fatalf("hit %d = %+v, %v", i, result, err)
		}
	}

	clock.Advance(15 * time.Second)
	result, err := limiter.CheckRateLimit(ctx, "ip:1.2.3.4")
	if err != nil || result.Allowed || result.Remaining != 0 || result.RetryAfter != 45*time.Second {
		t.Fatalf("over limit = %+v, %v", result, err)
	}

	other, _ := limiter.CheckRateLimit(ctx, "ip:5.6.7.8")
	if !other.Allowed {
		t.Errorf("keys must be counted separately")
	}

	clock.Advance(time.Minute)
	result, _ = limiter.CheckRateLimit(ctx, "ip:1.2.3.4")
	if !result.Allowed || result.Count != 1 {
		t.Errorf("new window = %+v", result)
	}
}

func TestBucketRateLimiter(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	limiter := newBucketRateLimiter(2, time.Minute, clock.Now)
	ctx := context.Background()

	first, _ := limiter.CheckRateLimit(ctx, "user:1")
	second, _ := limiter.CheckRateLimit(ctx, "user:1")
	if !first.Allowed || first.Remaining != 1 || !second.Allowed || second.Remaining != 0 {
		t.Fatalf("first = %+v second = %+v", first, second)
	}

	denied, err := limiter.CheckRateLimit(ctx, "user:1")
	if err != nil || denied.Allowed || denied.RetryAfter != 30*time.Second {
		t.Fatalf("denied = %+v, %v", denied, err)
	}

	clock.Advance(31 * time.Second)
	if refilled, _ := limiter.CheckRateLimit(ctx, "user:1"); !refilled.Allowed {
		t.Errorf("token was not refilled")
	}

	clock.Advance(2 * time.Minute)
	fresh, _ := limiter.CheckRateLimit(ctx, "user:1")
	if !fresh.Allowed || fresh.Remaining != 1 {
		t.Errorf("idle bucket was not reset: %+v", fresh)
	}
}

func TestWindowRateLimiterHoldsLimitPerWindow(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	limiter := NewWindowRateLimiter(cache.NewMemoryStore().WithClock(clock.Now), 30, 5*time.Minute)
	ctx := context.Background()

	allowed := 0
	for i := 0; i < 300; i++ {
		result, err := limiter.CheckRateLimit(ctx, "ip:1.2.3.4")
		if err != nil {
			t.Fatalf("hit %d: %v", i+1, err)
		}
		if result.Allowed {
			allowed++
		}
		if i == 30 && result.Allowed {
			t.Fatalf("31st hit in the window was allowed: %+v", result)
		}
		clock.Advance(time.Second)
	}
	if allowed != 30 {
		t.Errorf("allowed %d requests in one window, want 30", allowed)
	}
}
