package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/domain/repositories"
	"github.com/yurift/drift/internal/infrastructure/observability"
	apperrors "github.com/yurift/drift/pkg/errors"
	"github.com/yurift/drift/pkg/geo"
)

// DriftOptions holds the tunables of the matching pipeline
type DriftOptions struct {
	MaxDistanceKm      float64
	ResultCount        int
	CandidateLimit     int
	CandidateTimeout   time.Duration
	CatchphraseTimeout time.Duration
	// CandidateStore names the backing store in logs and metrics
	CandidateStore string
}

// DriftService runs one drift request end to end: admission, memoization,
// candidate fetch, ranking and catchphrase generation.
type DriftService struct {
	limiter      *RateLimiter
	cache        *ResultCache
	candidates   repositories.CandidateSource
	scorer       *ScoringService
	catchphrases providers.CatchphraseProvider
	opts         DriftOptions
	metrics      *observability.Metrics
}

// NewDriftService wires the pipeline
func NewDriftService(
	limiter *RateLimiter,
	cache *ResultCache,
	candidates repositories.CandidateSource,
	scorer *ScoringService,
	catchphrases providers.CatchphraseProvider,
	opts DriftOptions,
	metrics *observability.Metrics,
) *DriftService {
	return &DriftService{
		limiter:      limiter,
		cache:        cache,
		candidates:   candidates,
		scorer:       scorer,
		catchphrases: catchphrases,
		opts:         opts,
		metrics:      metrics,
	}
}

// Search returns up to ResultCount facilities for the taste vector around
// point. The rate limit decision is returned on every outcome after the
// limiter ran, so callers can always surface quota headers.
func (s *DriftService) Search(ctx context.Context, clientID string, taste entities.TasteVector, point entities.GeoPoint) (*entities.DriftResult, entities.RateLimitDecision, error) {
	ctx, span := observability.StartSpan(ctx, "DriftService.Search")
	defer span.End()

	decision := s.limiter.Check(ctx, clientID)
	if !decision.Allowed {
		return nil, decision, apperrors.NewRateLimitedError("request quota exceeded")
	}

	key, params := DeriveCacheKey(taste, point)
	observability.SetSpanAttributes(span, attribute.String("drift.cache_key", key))

	if cached, ok := s.cache.Get(ctx, key); ok {
		cached.Cached = true
		observability.SetSpanAttributes(span, attribute.Bool("drift.cached", true))
		return cached, decision, nil
	}

	candidates, err := s.fetchCandidates(ctx, point)
	if err != nil {
		observability.RecordError(span, err)
		return nil, decision, err
	}

	ranked := s.scorer.Rank(candidates, taste, point, s.opts.MaxDistanceKm)
	if len(ranked) == 0 {
		return nil, decision, apperrors.NewNotFoundError("no facilities found within range")
	}

	top := ranked
	if s.opts.ResultCount > 0 && len(top) > s.opts.ResultCount {
		top = top[:s.opts.ResultCount]
	}

	phrases := s.generateCatchphrases(ctx, top, taste)

	result := &entities.DriftResult{
		Facilities:   make([]entities.DriftFacility, len(top)),
		Cached:       false,
		SearchParams: params,
	}
	for i, sf := range top {
		result.Facilities[i] = entities.NewDriftFacility(sf, phrases[i])
	}

	s.cache.Set(ctx, key, params, result, 0)

	observability.SetSpanAttributes(span,
		attribute.Bool("drift.cached", false),
		attribute.Int("drift.candidates", len(candidates)),
		attribute.Int("drift.results", len(result.Facilities)),
	)
	return result, decision, nil
}

func (s *DriftService) fetchCandidates(ctx context.Context, point entities.GeoPoint) ([]entities.Facility, error) {
	if s.opts.CandidateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CandidateTimeout)
		defer cancel()
	}

	box := geo.BoundingBoxAround(point.Point(), s.opts.MaxDistanceKm)

	start := time.Now()
	candidates, err := s.candidates.FindInBoundingBox(ctx, box, s.opts.CandidateLimit)
	observability.RecordCandidateFetch(ctx, s.metrics, s.opts.CandidateStore, time.Since(start))
	if err != nil {
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("store", s.opts.CandidateStore).
			Msg("candidate fetch failed")
		return nil, apperrors.NewExternalError("candidate store unavailable", err)
	}
	return candidates, nil
}

// generateCatchphrases always returns one phrase per facility. A failed
// call or a count mismatch replaces every phrase with the default; an
// empty phrase is replaced individually.
func (s *DriftService) generateCatchphrases(ctx context.Context, top []entities.ScoredFacility, taste entities.TasteVector) []string {
	phrases := make([]string, len(top))
	for i := range phrases {
		phrases[i] = entities.DefaultCatchphrase
	}
	if s.catchphrases == nil {
		return phrases
	}

	if s.opts.CatchphraseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CatchphraseTimeout)
		defer cancel()
	}

	generated, err := s.catchphrases.GenerateCatchphrases(ctx, top, taste)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("catchphrase generation failed, using default")
		observability.RecordCatchphraseFallback(ctx, s.metrics, "error")
		return phrases
	}
	if len(generated) != len(top) {
		observability.LoggerFromContext(ctx).Warn().
			Int("expected", len(top)).
			Int("got", len(generated)).
			Msg("catchphrase count mismatch, using default")
		observability.RecordCatchphraseFallback(ctx, s.metrics, "count_mismatch")
		return phrases
	}

	for i, p := range generated {
		if p = strings.TrimSpace(p); p != "" {
			phrases[i] = p
		} else {
			observability.RecordCatchphraseFallback(ctx, s.metrics, "empty")
		}
	}
	return phrases
}
