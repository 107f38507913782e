package middleware

import (
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies. Scenario uploads are the largest
// payload the API accepts.
const DefaultMaxBodyBytes = 1 << 20

// BodySizeLimit creates middleware that limits the size of request bodies.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Reject on Content-Length before reading anything
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			// Chunked bodies have no Content-Length
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
