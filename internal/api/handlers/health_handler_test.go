package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/internal/api/handlers"
)

func okPing(context.Context) error { return nil }

func TestHealthHandler_Healthy(t *testing.T) {
	h := handlers.NewHealthHandler("2.0.0", "test", map[string]handlers.Pinger{
		"postgres": handlers.PingFunc(okPing),
		"redis":    handlers.PingFunc(okPing),
	})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, map[string]string{"api": "ok", "postgres": "ok", "redis": "ok"}, body.Services)
}

func TestHealthHandler_Degraded(t *testing.T) {
	h := handlers.NewHealthHandler("2.0.0", "test", map[string]handlers.Pinger{
		"postgres": handlers.PingFunc(okPing),
		"redis": handlers.PingFunc(func(context.Context) error {
			return errors.New("connection refused")
		}),
	})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"unavailable"`)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHealthHandler_Root(t *testing.T) {
	h := handlers.NewHealthHandler("2.0.0", "test", nil)

	w := httptest.NewRecorder()
	h.Root(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"drift_search":"/api/drift"`)
}
