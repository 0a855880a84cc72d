package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows any origin to read summaries. The API is read-only, so only safe methods are listed.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After", "X-RateLimit-Reset"},
		MaxAge:         300,
	})
}
