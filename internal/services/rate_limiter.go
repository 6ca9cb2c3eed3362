package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"petcare/internal/utils"
	"petcare/pkg/cache"
)

type RateLimitResult struct {
	Allowed    bool          `json:"allowed"`
	Count      int64         `json:"count"`
	Remaining  int64         `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string) (*RateLimitResult, error)
}

// windowRateLimiter allows limit hits per fixed window, counted in a
// cache.WindowCounter (Redis or MemoryStore).
type windowRateLimiter struct {
	counter cache.WindowCounter
	limit   int64
	window  time.Duration
}

func NewWindowRateLimiter(counter cache.WindowCounter, limit int, window time.Duration) RateLimiter {
	return &windowRateLimiter{counter: counter, limit: int64(limit), window: window}
}

func (l *windowRateLimiter) CheckRateLimit(ctx context.Context, key string) (*RateLimitResult, error) {
	count, ttl, err := l.counter.IncrWindow(ctx, utils.CacheRateLimitPrefix+key, l.window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	result := &RateLimitResult{
		Allowed:   count <= l.limit,
		Count:     count,
		Remaining: remaining,
	}
	if !result.Allowed {
		result.RetryAfter = ttl
	}

	return result, nil
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// bucketRateLimiter is a per-key token bucket refilled at limit per window.
// Sustained traffic can pass up to twice limit in one window. Idle buckets
// are dropped when their key is next seen.
type bucketRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewBucketRateLimiter(limit int, window time.Duration) RateLimiter {
	return newBucketRateLimiter(limit, window, time.Now)
}

func newBucketRateLimiter(limit int, window time.Duration, now func() time.Time) *bucketRateLimiter {
	return &bucketRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		now:     now,
	}
}

func (l *bucketRateLimiter) CheckRateLimit(_ context.Context, key string) (*RateLimitResult, error) {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok || now.Sub(b.lastSeen) > l.window {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.limit)), l.limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return &RateLimitResult{Allowed: false, RetryAfter: delay}, nil
	}

	remaining := int64(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitResult{Allowed: true, Remaining: remaining}, nil
}
