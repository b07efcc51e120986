package middleware

import (
	"net/http"

	"github.com/yurift/drift/internal/infrastructure/observability"
)

// Recoverer turns a handler panic into a 500 without leaking the cause
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			observability.LoggerFromContext(r.Context()).Error().
				Interface("panic", rec).
				Str("path", r.URL.Path).
				Msg("handler panicked")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"internal_error","detail":"internal server error"}`))
		}()
		next.ServeHTTP(w, r)
	})
}
