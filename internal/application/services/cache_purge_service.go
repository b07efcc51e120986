package services

import (
	"context"
	"time"

	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/infrastructure/observability"
)

// CachePurgeService periodically removes expired result cache entries and,
// when the in-process limiter is in use, abandoned rate windows.
type CachePurgeService struct {
	cache   *ResultCache
	sweeper providers.RateWindowSweeper
	now     func() time.Time
}

// NewCachePurgeService creates a purge service. sweeper may be nil.
func NewCachePurgeService(cache *ResultCache, sweeper providers.RateWindowSweeper) *CachePurgeService {
	return &CachePurgeService{
		cache:   cache,
		sweeper: sweeper,
		now:     time.Now,
	}
}

// PurgeOnce runs a single purge pass and returns the number of cache entries
// removed. Rate windows are swept even when the cache backend fails.
func (s *CachePurgeService) PurgeOnce(ctx context.Context) (int64, error) {
	logger := observability.LoggerFromContext(ctx)

	if s.sweeper != nil {
		if swept := s.sweeper.Sweep(s.now()); swept > 0 {
			logger.Debug().Int("windows", swept).Msg("swept idle rate limit windows")
		}
	}

	removed, err := s.cache.PurgeExpired(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("cache purge failed")
		return 0, err
	}

	if removed > 0 {
		logger.Info().Int64("entries", removed).Msg("purged expired cache entries")
	}
	return removed, nil
}

// StartPeriodicPurge runs PurgeOnce every interval until ctx is cancelled.
// A non-positive interval disables the loop.
func (s *CachePurgeService) StartPeriodicPurge(ctx context.Context, interval time.Duration) {
	logger := observability.LoggerFromContext(ctx)
	if interval <= 0 {
		logger.Info().Msg("periodic cache purge disabled")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("stopping cache purge service")
				return
			case <-ticker.C:
				_, _ = s.PurgeOnce(ctx)
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("started periodic cache purge")
}
