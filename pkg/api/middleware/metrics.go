package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-sdn/pkg/metrics"
)

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.statusCode = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Metrics creates middleware that tracks request counts, latency and
// in-flight requests. route maps a request to its metric label so that
// path parameters do not explode label cardinality.
func Metrics(registry *metrics.Registry, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if registry == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			registry.HTTPRequestsInFlight.Inc()
			defer registry.HTTPRequestsInFlight.Dec()

			wrapper := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			path := r.URL.Path
			if route != nil {
				path = route(r)
			}
			registry.RecordHTTPRequest(r.Method, path, strconv.Itoa(wrapper.statusCode), time.Since(start))
		})
	}
}
