package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	zlog "github.com/rs/zerolog/log"
)

// LoggingMiddleware logs one line per request.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			zlog.Info().Msgf("http request: method=%s path=%s status=%d duration_ms=%d request_id=%s",
				r.Method, r.URL.Path, ww.Status(), time.Since(start).Milliseconds(), middleware.GetReqID(r.Context()))
		})
	}
}

// TokenHeader carries the API token on HTTP requests, as on RPC calls.
const TokenHeader = "X-Chrono-Token"

// TokenMiddleware rejects requests that do not present token in TokenHeader
// or in the "token" form field. An empty token leaves routes open.
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(TokenHeader)
			if got == "" {
				got = r.FormValue("token")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				zlog.Warn().Msgf("unauthenticated request: method=%s path=%s request_id=%s",
					r.Method, r.URL.Path, middleware.GetReqID(r.Context()))
				WriteError(w, http.StatusUnauthorized, "missing or invalid token", "unauthenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RecoveryMiddleware turns a handler panic into a 500 response.
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					zlog.Error().Msgf("panic recovered: error=%v request_id=%s", err, middleware.GetReqID(r.Context()))
					WriteError(w, http.StatusInternalServerError, "internal server error", "internal_error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func WriteError(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zlog.Debug().Msgf("failed to write response: %v", err)
	}
}
