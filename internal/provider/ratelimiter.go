package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every call a provider makes to
// one upstream API. Index builds fan out over many venues, so callers queue
// here instead of tripping the upstream's own limit.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	burst    int
	every    time.Duration
	refilled time.Time
	now      func() time.Time
}

// NewRateLimiter allows burst calls at once and one more call per every.
func NewRateLimiter(burst int, every time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		tokens:   burst,
		burst:    burst,
		every:    every,
		refilled: time.Now(),
		now:      time.Now,
	}
}

// Wait takes a token, sleeping until the next one is due. It returns ctx's
// error if ctx ends first.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay := r.reserve()
		if delay == 0 {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes a token and returns 0, or returns how long until one is due.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.every > 0 {
		if n := int(now.Sub(r.refilled) / r.every); n > 0 {
			r.tokens = min(r.burst, r.tokens+n)
			r.refilled = r.refilled.Add(time.Duration(n) * r.every)
		}
	}
	if r.tokens > 0 {
		r.tokens--
		return 0
	}
	delay := r.refilled.Add(r.every).Sub(now)
	if delay <= 0 {
		delay = time.Millisecond
	}
	return delay
}
