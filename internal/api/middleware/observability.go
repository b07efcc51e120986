package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yurift/drift/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityMiddleware opens one server span per request and records the
// request counter and latency histogram. Spans and metrics are keyed by the
// matched route pattern, never the raw path.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeOf(r)

			ctx, span := observability.StartSpan(r.Context(), fmt.Sprintf("%s %s", r.Method, route))
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
			)
			if id := w.Header().Get(RequestIDHeader); id != "" {
				observability.SetSpanAttributes(span, attribute.String("http.request_id", id))
			}

			rec := newStatusRecorder(w)
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rec.statusCode, time.Since(start))
			annotateStatus(span, rec.statusCode)
		})
	}
}

// routeOf returns the ServeMux pattern that matched, falling back to the path
// for unmatched requests.
func routeOf(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.URL.Path
}

func annotateStatus(span trace.Span, status int) {
	observability.SetSpanAttributes(span, attribute.Int("http.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
