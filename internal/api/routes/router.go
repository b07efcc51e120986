package routes

import (
	"net/http"

	"github.com/yurift/drift/internal/api/handlers"
	"github.com/yurift/drift/internal/api/middleware"
	"github.com/yurift/drift/internal/infrastructure/observability"
)

// Options configures the cross-cutting middleware
type Options struct {
	AllowedOrigins []string
	Development    bool
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	driftHandler  *handlers.DriftHandler
	healthHandler *handlers.HealthHandler
	adminHandler  *handlers.AdminHandler

	opts    Options
	metrics *observability.Metrics
}

// NewRouter creates a new router. adminHandler may be nil, in which case the
// admin routes are not registered.
func NewRouter(
	driftHandler *handlers.DriftHandler,
	healthHandler *handlers.HealthHandler,
	adminHandler *handlers.AdminHandler,
	opts Options,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		driftHandler:  driftHandler,
		healthHandler: healthHandler,
		adminHandler:  adminHandler,
		opts:          opts,
		metrics:       metrics,
	}
}

// SetupRoutes registers the routes and wraps them in middleware
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /{$}", r.healthHandler.Root)
	r.mux.HandleFunc("GET /api/health", r.healthHandler.Health)

	r.mux.HandleFunc("POST /api/drift", r.driftHandler.Search)

	if r.adminHandler != nil {
		r.mux.HandleFunc("DELETE /api/admin/rate-limits/{identifier}", r.adminHandler.ResetRateLimit)
		r.mux.HandleFunc("POST /api/admin/cache/purge", r.adminHandler.PurgeCache)
	}

	// last wrap runs first
	var handler http.Handler = r.mux
	handler = middleware.Recoverer(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.SecurityHeaders(r.opts.Development)(handler)
	handler = middleware.CORSMiddleware(r.opts.AllowedOrigins)(handler)

	return handler
}
