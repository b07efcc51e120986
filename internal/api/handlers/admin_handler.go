package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	apperrors "github.com/yurift/drift/pkg/errors"
)

// AdminTokenHeader carries the shared admin secret
const AdminTokenHeader = "X-Admin-Token"

// RateLimitResetter clears a client's quota record
type RateLimitResetter interface {
	Reset(ctx context.Context, identifier string) error
}

// CachePurger removes expired cache entries
type CachePurger interface {
	PurgeOnce(ctx context.Context) (int64, error)
}

// AdminHandler exposes maintenance operations
type AdminHandler struct {
	token   string
	limiter RateLimitResetter
	purger  CachePurger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(token string, limiter RateLimitResetter, purger CachePurger) *AdminHandler {
	return &AdminHandler{token: token, limiter: limiter, purger: purger}
}

// ResetRateLimit handles DELETE /api/admin/rate-limits/{identifier}
func (h *AdminHandler) ResetRateLimit(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("admin token required"))
		return
	}

	identifier := strings.TrimSpace(r.PathValue("identifier"))
	if identifier == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("identifier is required"))
		return
	}

	if err := h.limiter.Reset(r.Context(), identifier); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PurgeCache handles POST /api/admin/cache/purge
func (h *AdminHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("admin token required"))
		return
	}

	removed, err := h.purger.PurgeOnce(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	got := r.Header.Get(AdminTokenHeader)
	if h.token == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
