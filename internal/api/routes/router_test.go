package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yurift/drift/internal/api/handlers"
	"github.com/yurift/drift/internal/domain/entities"
)

type fixedSearcher struct{}

func (fixedSearcher) Search(ctx context.Context, clientID string, taste entities.TasteVector, point entities.GeoPoint) (*entities.DriftResult, entities.RateLimitDecision, error) {
	return &entities.DriftResult{}, entities.RateLimitDecision{Allowed: true, Limit: 5, Remaining: 4, ResetSeconds: 60}, nil
}

type noopAdmin struct{}

func (noopAdmin) Reset(ctx context.Context, identifier string) error { return nil }
func (noopAdmin) PurgeOnce(ctx context.Context) (int64, error)       { return 0, nil }

func newTestRouter(admin *handlers.AdminHandler) http.Handler {
	return NewRouter(
		handlers.NewDriftHandler(fixedSearcher{}),
		handlers.NewHealthHandler("2.0.0", "test", nil),
		admin,
		Options{AllowedOrigins: []string{"http://localhost:3000"}},
		nil,
	).SetupRoutes()
}

func TestRouter_DriftRoute(t *testing.T) {
	body := `{"vibes":["forest","snow","hinoki"],"sensations":["トロトロ"],"location":{"lat":35.68,"lng":139.76}}`
	req := httptest.NewRequest(http.MethodPost, "/api/drift", strings.NewReader(body))
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	newTestRouter(nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/drift", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_HealthRoutes(t *testing.T) {
	router := newTestRouter(nil)

	for _, path := range []string{"/", "/api/health"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AdminRoutesOnlyWhenConfigured(t *testing.T) {
	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/api/admin/cache/purge", nil)
		r.Header.Set(handlers.AdminTokenHeader, "tok")
		return r
	}

	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, req())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	newTestRouter(handlers.NewAdminHandler("tok", noopAdmin{}, noopAdmin{})).ServeHTTP(w, req())
	assert.Equal(t, http.StatusOK, w.Code)
}
