// Package middleware provides reusable HTTP middleware for the Booze Cruise API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// Allowed methods and headers cover the full REST surface of the API.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		// Download endpoints name their file and report render details in headers.
		ExposedHeaders: []string{"Content-Disposition", "X-Highlights-Cached", "X-Highlights-Failed-Photos"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
