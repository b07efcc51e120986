package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Pinger is a dependency that can report its health
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler reports service and dependency status
type HealthHandler struct {
	version      string
	env          string
	dependencies map[string]Pinger
	timeout      time.Duration
}

// NewHealthHandler creates a new health handler. dependencies maps a display
// name (postgres, redis, typesense) to its checker.
func NewHealthHandler(version, env string, dependencies map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		version:      version,
		env:          env,
		dependencies: dependencies,
		timeout:      2 * time.Second,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "YURIFT API",
		"version":     h.version,
		"status":      "healthy",
		"environment": h.env,
		"endpoints": map[string]string{
			"drift_search": "/api/drift",
			"health":       "/api/health",
		},
	})
}

// Health handles GET /api/health. It answers 503 when any dependency fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.dependencies))
	for name := range h.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	services := map[string]string{"api": "ok"}
	status, code := "healthy", http.StatusOK
	for _, name := range names {
		if err := h.dependencies[name].Ping(ctx); err != nil {
			services[name] = "unavailable"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		services[name] = "ok"
	}

	respondWithJSON(w, code, map[string]interface{}{
		"status":      status,
		"api_version": h.version,
		"environment": h.env,
		"services":    services,
	})
}
