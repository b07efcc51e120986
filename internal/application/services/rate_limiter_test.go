package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yurift/drift/internal/adapters/ratelimit"
	"github.com/yurift/drift/internal/application/services"
	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/mocks"
)

const day = 24 * time.Hour

func TestRateLimiter_AdmitsQuotaThenDenies(t *testing.T) {
	clock := newFakeClock()
	limiter := services.NewRateLimiter(ratelimit.NewMemoryCounterStore(), 5, day, nil).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d := limiter.Check(ctx, "203.0.113.7")
		assert.True(t, d.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 5-i-1, d.Remaining)
		assert.Equal(t, 86400, d.ResetSeconds)
		assert.Equal(t, 5, d.Limit)
		clock.Advance(time.Minute)
	}

	d := limiter.Check(ctx, "203.0.113.7")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	// oldest request was 5 minutes ago
	assert.Equal(t, 86400-300, d.ResetSeconds)
}

func TestRateLimiter_AdmitsAgainAfterWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := services.NewRateLimiter(ratelimit.NewMemoryCounterStore(), 5, day, nil).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		limiter.Check(ctx, "client")
	}
	assert.False(t, limiter.Check(ctx, "client").Allowed)

	clock.Advance(day + time.Second)

	d := limiter.Check(ctx, "client")
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestRateLimiter_DeniedAttemptsAreNotRecorded(t *testing.T) {
	clock := newFakeClock()
	limiter := services.NewRateLimiter(ratelimit.NewMemoryCounterStore(), 2, time.Hour, nil).WithClock(clock.Now)
	ctx := context.Background()

	limiter.Check(ctx, "client")
	clock.Advance(10 * time.Minute)
	limiter.Check(ctx, "client")

	for i := 0; i < 10; i++ {
		clock.Advance(time.Minute)
		assert.False(t, limiter.Check(ctx, "client").Allowed)
	}

	// now at t=20m; the first request leaves the window at t=60m and only
	// one slot frees up
	clock.Advance(41 * time.Minute)
	assert.True(t, limiter.Check(ctx, "client").Allowed)
	assert.False(t, limiter.Check(ctx, "client").Allowed)
}

func TestRateLimiter_SameInstantRequestsCountSeparately(t *testing.T) {
	clock := newFakeClock()
	limiter := services.NewRateLimiter(ratelimit.NewMemoryCounterStore(), 3, time.Hour, nil).WithClock(clock.Now)
	ctx := context.Background()

	assert.True(t, limiter.Check(ctx, "client").Allowed)
	assert.True(t, limiter.Check(ctx, "client").Allowed)
	assert.True(t, limiter.Check(ctx, "client").Allowed)
	assert.False(t, limiter.Check(ctx, "client").Allowed)
}

func TestRateLimiter_IdentifiersAreIndependent(t *testing.T) {
	limiter := services.NewRateLimiter(ratelimit.NewMemoryCounterStore(), 1, time.Hour, nil)
	ctx := context.Background()

	assert.True(t, limiter.Check(ctx, "a").Allowed)
	assert.False(t, limiter.Check(ctx, "a").Allowed)
	assert.True(t, limiter.Check(ctx, "b").Allowed)
}

func TestRateLimiter_ConcurrentChecksNeverOverAdmit(t *testing.T) {
	limiter := services.NewRateLimiter(ratelimit.NewMemoryCounterStore(), 5, day, nil)
	ctx := context.Background()

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Check(ctx, "burst").Allowed {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), admitted)
}

func TestRateLimiter_Reset(t *testing.T) {
	limiter := services.NewRateLimiter(ratelimit.NewMemoryCounterStore(), 1, day, nil)
	ctx := context.Background()

	limiter.Check(ctx, "client")
	assert.False(t, limiter.Check(ctx, "client").Allowed)

	assert.NoError(t, limiter.Reset(ctx, "client"))
	assert.NoError(t, limiter.Reset(ctx, "client"))
	assert.NoError(t, limiter.Reset(ctx, "never-seen"))

	assert.True(t, limiter.Check(ctx, "client").Allowed)
}

func TestRateLimiter_FailsOpenOnStoreError(t *testing.T) {
	store := mocks.NewRateCounterStore(t)
	store.On("Admit", mock.Anything, "client", mock.Anything, day, 5, day+time.Minute).
		Return(providers.WindowSnapshot{}, errors.New("dial tcp: connection refused")).Once()

	limiter := services.NewRateLimiter(store, 5, day, nil)
	d := limiter.Check(context.Background(), "client")

	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Remaining)
	assert.Equal(t, 5, d.Limit)
	assert.Equal(t, 86400, d.ResetSeconds)
}

func TestRateLimiter_ResetClampedAtZero(t *testing.T) {
	clock := newFakeClock()
	store := mocks.NewRateCounterStore(t)
	store.On("Admit", mock.Anything, "client", mock.Anything, time.Hour, 1, mock.Anything).
		Return(providers.WindowSnapshot{Admitted: false, Count: 1, Oldest: clock.Now().Add(-2 * time.Hour)}, nil).Once()

	limiter := services.NewRateLimiter(store, 1, time.Hour, nil).WithClock(clock.Now)
	d := limiter.Check(context.Background(), "client")

	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.ResetSeconds)
}
