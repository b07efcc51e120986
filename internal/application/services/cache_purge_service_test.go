package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/internal/adapters/ratelimit"
	"github.com/yurift/drift/internal/application/services"
	"github.com/yurift/drift/internal/mocks"
)

func TestCachePurgeService_PurgeOnce(t *testing.T) {
	clock := newFakeClock()
	repo := newMemorySearchCache()
	cache := services.NewResultCache(repo, time.Hour, services.WithCacheClock(clock.Now))
	ctx := context.Background()

	result := sampleResult()
	cache.Set(ctx, "old", result.SearchParams, result, time.Minute)
	cache.Set(ctx, "fresh", result.SearchParams, result, 2*time.Hour)
	clock.Advance(time.Hour)

	svc := services.NewCachePurgeService(cache, ratelimit.NewMemoryCounterStore())
	removed, err := svc.PurgeOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Contains(t, repo.entries, "fresh")
	assert.NotContains(t, repo.entries, "old")
}

func TestCachePurgeService_PropagatesBackendError(t *testing.T) {
	repo := mocks.NewSearchCacheRepository(t)
	repo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout")).Once()

	svc := services.NewCachePurgeService(services.NewResultCache(repo, time.Hour), nil)
	_, err := svc.PurgeOnce(context.Background())

	assert.Error(t, err)
}

type countingSweeper struct {
	calls int
}

func (s *countingSweeper) Sweep(time.Time) int {
	s.calls++
	return 0
}

func TestCachePurgeService_SweepsWindowsWhenCacheBackendFails(t *testing.T) {
	repo := mocks.NewSearchCacheRepository(t)
	repo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection refused")).Once()

	sweeper := &countingSweeper{}
	svc := services.NewCachePurgeService(services.NewResultCache(repo, time.Hour), sweeper)
	_, err := svc.PurgeOnce(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, sweeper.calls)
}

func TestCachePurgeService_SweepsIdleMemoryWindows(t *testing.T) {
	store := ratelimit.NewMemoryCounterStore()
	ctx := context.Background()
	past := time.Now().Add(-48 * time.Hour)
	_, err := store.Admit(ctx, "idle-client", past, 24*time.Hour, 5, 24*time.Hour+time.Minute)
	require.NoError(t, err)

	repo := mocks.NewSearchCacheRepository(t)
	repo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil).Once()

	svc := services.NewCachePurgeService(services.NewResultCache(repo, time.Hour), store)
	_, err = svc.PurgeOnce(ctx)
	require.NoError(t, err)

	assert.Zero(t, store.Sweep(time.Now()))
}

func TestCachePurgeService_StartPeriodicPurge(t *testing.T) {
	repo := mocks.NewSearchCacheRepository(t)
	purged := make(chan struct{}, 1)
	repo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), nil).Run(func(mock.Arguments) {
		select {
		case purged <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := services.NewCachePurgeService(services.NewResultCache(repo, time.Hour), nil)
	svc.StartPeriodicPurge(ctx, 10*time.Millisecond)

	select {
	case <-purged:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic purge did not run")
	}
}
