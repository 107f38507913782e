package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string // Allowed origins, or ["*"] for all
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // Preflight cache duration in seconds
}

// DefaultCORSConfig returns a configuration that allows no origins
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins:   []string{}, // Empty disables CORS
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           3600,
	}
}

// CORS creates middleware that handles Cross-Origin Resource Sharing. The
// dashboard may be served from another origin than the controller.
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := config != nil &&
				(slices.Contains(config.AllowedOrigins, "*") || slices.Contains(config.AllowedOrigins, origin))

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")

				methods := "GET, POST, DELETE, OPTIONS"
				headers := "Content-Type, Authorization, X-Request-ID"
				if config != nil {
					if len(config.AllowedMethods) > 0 {
						methods = strings.Join(config.AllowedMethods, ", ")
					}
					if len(config.AllowedHeaders) > 0 {
						headers = strings.Join(config.AllowedHeaders, ", ")
					}
					if config.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
					if config.MaxAge > 0 {
						w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
					}
				}
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
			}

			if r.Method == http.MethodOptions {
				if allowed {
					w.WriteHeader(http.StatusOK)
				} else {
					w.WriteHeader(http.StatusForbidden)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
