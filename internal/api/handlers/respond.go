package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yurift/drift/internal/infrastructure/observability"
	apperrors "github.com/yurift/drift/pkg/errors"
)

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, code, detail string) {
	respondWithJSON(w, statusCode, errorResponse{Error: code, Detail: detail})
}

// respondWithAppError maps a typed error onto a status code. Internal and
// dependency details stay in the logs.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("unexpected error", err)
	}

	status, code := appErr.Type.HTTPStatus(), appErr.Type.Code()
	if appErr.Type.Exposed() {
		respondWithError(w, status, code, appErr.Message)
		return
	}

	observability.LoggerFromContext(r.Context()).Error().Err(err).Str("error_type", string(appErr.Type)).Msg("request failed")
	if appErr.Type == apperrors.ErrorTypeExternal {
		respondWithError(w, status, code, "検索サービスが一時的に利用できません。しばらく時間をおいて再度お試しください。")
		return
	}
	respondWithError(w, status, code, "検索中にエラーが発生しました。しばらく時間をおいて再度お試しください。")
}

// clientIP identifies the caller for rate limiting. The first X-Forwarded-For
// hop wins because the service runs behind a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
