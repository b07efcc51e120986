package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing, which keeps tests free of meter setup.
type Metrics struct {
	RequestCount             metric.Int64Counter
	RequestDuration          metric.Float64Histogram
	DBQueryDuration          metric.Float64Histogram
	CacheHitCount            metric.Int64Counter
	CacheMissCount           metric.Int64Counter
	CacheErrorCount          metric.Int64Counter
	RateLimitDeniedCount     metric.Int64Counter
	RateLimitFailOpenCount   metric.Int64Counter
	CatchphraseFallbackCount metric.Int64Counter
	CandidateFetchDuration   metric.Float64Histogram
	BreakerTransitionCount   metric.Int64Counter
}

// InitMetrics initializes application metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)
	m := &Metrics{}

	var err error
	if m.RequestCount, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.DBQueryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.CacheHitCount, err = meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of result cache hits"),
	); err != nil {
		return nil, err
	}
	if m.CacheMissCount, err = meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of result cache misses"),
	); err != nil {
		return nil, err
	}
	if m.CacheErrorCount, err = meter.Int64Counter(
		"cache.error.count",
		metric.WithDescription("Number of result cache backend errors"),
	); err != nil {
		return nil, err
	}
	if m.RateLimitDeniedCount, err = meter.Int64Counter(
		"ratelimit.denied.count",
		metric.WithDescription("Number of requests rejected by the rate limiter"),
	); err != nil {
		return nil, err
	}
	if m.RateLimitFailOpenCount, err = meter.Int64Counter(
		"ratelimit.fail_open.count",
		metric.WithDescription("Number of requests admitted because the counter store failed"),
	); err != nil {
		return nil, err
	}
	if m.CatchphraseFallbackCount, err = meter.Int64Counter(
		"catchphrase.fallback.count",
		metric.WithDescription("Number of responses that used the default catchphrase"),
	); err != nil {
		return nil, err
	}
	if m.CandidateFetchDuration, err = meter.Float64Histogram(
		"candidate.fetch.duration",
		metric.WithDescription("Candidate store query duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.BreakerTransitionCount, err = meter.Int64Counter(
		"circuit_breaker.transition.count",
		metric.WithDescription("Number of circuit breaker state changes"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRequestMetric records an HTTP request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	)

	metrics.RequestCount.Add(ctx, 1, attrs)
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordDBMetric records a database operation metric
func RecordDBMetric(ctx context.Context, metrics *Metrics, operation string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.DBQueryDuration.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(attribute.String("db.operation", operation)))
}

// RecordCacheHit records a result cache hit
func RecordCacheHit(ctx context.Context, metrics *Metrics) {
	if metrics == nil {
		return
	}
	metrics.CacheHitCount.Add(ctx, 1)
}

// RecordCacheMiss records a result cache miss
func RecordCacheMiss(ctx context.Context, metrics *Metrics) {
	if metrics == nil {
		return
	}
	metrics.CacheMissCount.Add(ctx, 1)
}

// RecordCacheError records a result cache backend failure for operation (get, set, purge)
func RecordCacheError(ctx context.Context, metrics *Metrics, operation string) {
	if metrics == nil {
		return
	}
	metrics.CacheErrorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.operation", operation)))
}

// RecordRateLimitDenied records a rejected request
func RecordRateLimitDenied(ctx context.Context, metrics *Metrics) {
	if metrics == nil {
		return
	}
	metrics.RateLimitDeniedCount.Add(ctx, 1)
}

// RecordRateLimitFailOpen records a request admitted without a quota check
func RecordRateLimitFailOpen(ctx context.Context, metrics *Metrics) {
	if metrics == nil {
		return
	}
	metrics.RateLimitFailOpenCount.Add(ctx, 1)
}

// RecordCatchphraseFallback records a response that used the default phrase
func RecordCatchphraseFallback(ctx context.Context, metrics *Metrics, reason string) {
	if metrics == nil {
		return
	}
	metrics.CatchphraseFallbackCount.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordCandidateFetch records how long the candidate store took
func RecordCandidateFetch(ctx context.Context, metrics *Metrics, store string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.CandidateFetchDuration.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(attribute.String("candidate.store", store)))
}

// RecordBreakerTransition records a circuit breaker state change
func RecordBreakerTransition(ctx context.Context, metrics *Metrics, name, from, to string) {
	if metrics == nil {
		return
	}
	metrics.BreakerTransitionCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker.name", name),
		attribute.String("breaker.from", from),
		attribute.String("breaker.to", to),
	))
}
