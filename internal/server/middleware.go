package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// corsMiddleware applies the cross-origin policy to every route and answers
// preflight requests directly.
func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	origin := strings.TrimSpace(allowedOrigin)
	if origin == "" {
		origin = "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originGateMiddleware rejects requests whose Origin or Referer does not
// start with the allowed origin. A spoofed header passes; this is best-effort
// bot deterrence, not authentication.
func originGateMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			referer := r.Header.Get("Referer")

			if strings.HasPrefix(origin, allowedOrigin) || strings.HasPrefix(referer, allowedOrigin) {
				next.ServeHTTP(w, r)
				return
			}

			writeError(w, http.StatusForbidden, "origin not allowed")
		})
	}
}

// recoverMiddleware converts panics anywhere below into a generic 500 so a
// single bad request cannot take the process down.
func recoverMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("request handler panicked")
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
