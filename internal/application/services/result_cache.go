package services

import (
	"context"
	"time"

	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/repositories"
	"github.com/yurift/drift/internal/infrastructure/observability"
)

// ResultCache memoizes drift results by cache key. Backend failures never
// reach the caller: a failed Get is a miss and a failed Set is dropped.
type ResultCache struct {
	repo       repositories.SearchCacheRepository
	defaultTTL time.Duration
	timeout    time.Duration
	metrics    *observability.Metrics
	now        func() time.Time
}

// ResultCacheOption configures a ResultCache
type ResultCacheOption func(*ResultCache)

// WithCacheClock replaces the wall clock, for tests
func WithCacheClock(now func() time.Time) ResultCacheOption {
	return func(c *ResultCache) { c.now = now }
}

// WithCacheTimeout bounds every backend call
func WithCacheTimeout(d time.Duration) ResultCacheOption {
	return func(c *ResultCache) { c.timeout = d }
}

// WithCacheMetrics records hit/miss/error counters
func WithCacheMetrics(m *observability.Metrics) ResultCacheOption {
	return func(c *ResultCache) { c.metrics = m }
}

// NewResultCache creates a result cache over repo
func NewResultCache(repo repositories.SearchCacheRepository, defaultTTL time.Duration, opts ...ResultCacheOption) *ResultCache {
	c := &ResultCache{
		repo:       repo,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached result for key. Entries past their expiry are
// treated as absent even when the backend still holds them.
func (c *ResultCache) Get(ctx context.Context, key string) (*entities.DriftResult, bool) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	entry, err := c.repo.Get(ctx, key)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("result cache read failed, treating as miss")
		observability.RecordCacheError(ctx, c.metrics, "get")
		observability.RecordCacheMiss(ctx, c.metrics)
		return nil, false
	}
	if entry == nil || entry.IsExpired(c.now()) {
		observability.RecordCacheMiss(ctx, c.metrics)
		return nil, false
	}

	observability.RecordCacheHit(ctx, c.metrics)
	result := entry.Result
	return &result, true
}

// Set stores result under key, replacing any previous entry and restarting
// its TTL. A ttl of zero or less uses the configured default.
func (c *ResultCache) Set(ctx context.Context, key string, params entities.SearchParams, result *entities.DriftResult, ttl time.Duration) {
	if result == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	stored := *result
	stored.Cached = false

	entry := &entities.CacheEntry{
		Key:          key,
		SearchParams: params,
		Result:       stored,
		ExpiresAt:    c.now().Add(ttl),
	}
	if err := c.repo.Upsert(ctx, entry); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("result cache write failed")
		observability.RecordCacheError(ctx, c.metrics, "set")
	}
}

// PurgeExpired removes expired entries from the backend
func (c *ResultCache) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := c.repo.DeleteExpired(ctx, c.now())
	if err != nil {
		observability.RecordCacheError(ctx, c.metrics, "purge")
		return 0, err
	}
	return removed, nil
}

func (c *ResultCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
