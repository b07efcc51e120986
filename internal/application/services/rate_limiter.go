package services

import (
	"context"
	"math"
	"time"

	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/infrastructure/observability"
)

// rateWindowSlack keeps a counter record alive a little past its window so
// the store never evicts a window that is still logically open.
const rateWindowSlack = 60 * time.Second

// RateLimiter is a sliding-window admission controller keyed by client
// identifier. It fails open when the counter store is unavailable.
type RateLimiter struct {
	store   providers.RateCounterStore
	limit   int
	window  time.Duration
	metrics *observability.Metrics
	now     func() time.Time
}

// NewRateLimiter creates a limiter admitting limit requests per window
func NewRateLimiter(store providers.RateCounterStore, limit int, window time.Duration, metrics *observability.Metrics) *RateLimiter {
	return &RateLimiter{
		store:   store,
		limit:   limit,
		window:  window,
		metrics: metrics,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests
func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	r.now = now
	return r
}

// Limit returns the configured quota
func (r *RateLimiter) Limit() int {
	return r.limit
}

// Check records an attempt for identifier and reports whether it is admitted
func (r *RateLimiter) Check(ctx context.Context, identifier string) entities.RateLimitDecision {
	windowSeconds := int(r.window / time.Second)
	now := r.now()

	snap, err := r.store.Admit(ctx, identifier, now, r.window, r.limit, r.window+rateWindowSlack)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("identifier", identifier).
			Msg("rate limiter store unavailable, failing open")
		observability.RecordRateLimitFailOpen(ctx, r.metrics)
		return entities.RateLimitDecision{
			Allowed:      true,
			Limit:        r.limit,
			Remaining:    r.limit,
			ResetSeconds: windowSeconds,
		}
	}

	if !snap.Admitted {
		observability.RecordRateLimitDenied(ctx, r.metrics)
		return entities.RateLimitDecision{
			Allowed:      false,
			Limit:        r.limit,
			Remaining:    0,
			ResetSeconds: r.resetSeconds(now, snap.Oldest),
		}
	}

	remaining := r.limit - snap.Count - 1
	if remaining < 0 {
		remaining = 0
	}
	return entities.RateLimitDecision{
		Allowed:      true,
		Limit:        r.limit,
		Remaining:    remaining,
		ResetSeconds: windowSeconds,
	}
}

// Reset deletes the identifier's window. Resetting an unknown identifier is
// not an error.
func (r *RateLimiter) Reset(ctx context.Context, identifier string) error {
	return r.store.Delete(ctx, identifier)
}

// resetSeconds is the time until the oldest request leaves the window,
// rounded up and never negative.
func (r *RateLimiter) resetSeconds(now, oldest time.Time) int {
	if oldest.IsZero() {
		return int(r.window / time.Second)
	}
	left := r.window - now.Sub(oldest)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}
