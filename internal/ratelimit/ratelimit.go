// Package ratelimit bounds per-user AI request volume with an expiring
// counter. It protects the vendor account from runaway spend caused by
// rapid repeated editor actions; it is not an abuse-prevention mechanism.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwelldev/inkwell/internal/fault"
)

// Defaults applied when New receives non-positive values.
const (
	DefaultMaxRequests = 10
	DefaultWindow      = 60 * time.Second
)

// CounterStore is the expiring counter collaborator. Count reports the
// current value and whether the key exists (expired keys count as absent);
// SetCount writes a value with a time-to-live.
type CounterStore interface {
	Count(ctx context.Context, key string) (int, bool, error)
	SetCount(ctx context.Context, key string, n int, ttl time.Duration) error
}

// Limiter enforces a sliding per-key request ceiling within a time window.
type Limiter struct {
	store  CounterStore
	max    int
	window time.Duration
}

// New creates a Limiter. Non-positive max or window fall back to the
// defaults.
func New(store CounterStore, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: store, max: max, window: window}
}

// Allow records one request for key and returns nil, or a
// rate_limit_exceeded fault when the ceiling has been reached within the
// window. The check happens before any counter write, so the request that
// would exceed the ceiling leaves the counter untouched.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	counterKey := "ratelimit:" + key

	count, ok, err := l.store.Count(ctx, counterKey)
	if err != nil {
		return fmt.Errorf("reading rate counter: %w", err)
	}

	if !ok {
		if err := l.store.SetCount(ctx, counterKey, 1, l.window); err != nil {
			return fmt.Errorf("writing rate counter: %w", err)
		}
		return nil
	}

	if count >= l.max {
		return fault.Newf(fault.KindRateLimitExceeded,
			"rate limit exceeded: at most %d AI requests per %s", l.max, l.window)
	}

	if err := l.store.SetCount(ctx, counterKey, count+1, l.window); err != nil {
		return fmt.Errorf("writing rate counter: %w", err)
	}
	return nil
}
