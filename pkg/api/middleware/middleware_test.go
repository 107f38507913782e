package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dd0wney/cluso-sdn/pkg/logging"
	"github.com/dd0wney/cluso-sdn/pkg/metrics"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// --- BodySizeLimit Tests ---

func TestBodySizeLimit_AllowsSmallRequest(t *testing.T) {
	handler := BodySizeLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", strings.NewReader("small body")))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestBodySizeLimit_RejectsLargeContentLength(t *testing.T) {
	handler := BodySizeLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for oversized request")
	}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	req.ContentLength = 1000

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status %d, got %d", http.StatusRequestEntityTooLarge, rr.Code)
	}
}

func TestBodySizeLimit_LimitsChunkedBody(t *testing.T) {
	handler := BodySizeLimit(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "Body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status %d, got %d", http.StatusRequestEntityTooLarge, rr.Code)
	}
}

// --- PanicRecovery Tests ---

func TestPanicRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)

	handler := PanicRecovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("flow table corrupted")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/flows", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if strings.Contains(rr.Body.String(), "corrupted") {
		t.Error("Panic details leaked to client")
	}
	if !strings.Contains(buf.String(), "flow table corrupted") {
		t.Errorf("Expected panic to be logged, got %q", buf.String())
	}
}

// --- RequestID Tests ---

func TestRequestID_Generated(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if len(seen) != 36 {
		t.Errorf("Expected UUID request ID, got %q", seen)
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Error("Response header does not match context request ID")
	}
}

func TestRequestID_Sanitized(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc-123_x.y", "abc-123_x.y"},
		{"abc<script>", "abcscript"},
		{"a b\nc", "abc"},
		{strings.Repeat("a", 100), strings.Repeat("a", 64)},
	}

	for _, tt := range tests {
		var seen string
		handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r)
		}))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, tt.input)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if seen != tt.expected {
			t.Errorf("sanitize(%q) = %q, want %q", tt.input, seen, tt.expected)
		}
	}
}

// --- Logging Tests ---

func TestLogging_FailedRequestLogsWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)

	handler := RequestID()(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health/ready", nil))

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"status":"503"`) {
		t.Errorf("Expected WARN entry with status, got %q", out)
	}
	if !strings.Contains(out, "request_id") {
		t.Errorf("Expected request_id field, got %q", out)
	}
}

func TestLogging_SuccessIsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)

	Logging(logger)(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/switches", nil))

	if buf.Len() != 0 {
		t.Errorf("Expected no INFO output for success, got %q", buf.String())
	}
}

// --- CORS Tests ---

func TestCORS_NoOriginsConfigured(t *testing.T) {
	handler := CORS(DefaultCORSConfig())(okHandler)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("Expected no CORS headers by default")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"http://dashboard.local"}
	handler := CORS(config)(okHandler)

	req := httptest.NewRequest("OPTIONS", "/flows", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected preflight %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://dashboard.local" {
		t.Errorf("Unexpected origin header %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
	if rr.Header().Get("Access-Control-Max-Age") != "3600" {
		t.Errorf("Unexpected max age %q", rr.Header().Get("Access-Control-Max-Age"))
	}

	req = httptest.NewRequest("OPTIONS", "/flows", nil)
	req.Header.Set("Origin", "http://evil.local")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected preflight %d for unknown origin, got %d", http.StatusForbidden, rr.Code)
	}
}

// --- SecurityHeaders Tests ---

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders()(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	for _, h := range []string{"X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("Expected %s header", h)
		}
	}
}

// --- Metrics Tests ---

func TestMetrics_RecordsRouteLabel(t *testing.T) {
	registry := metrics.NewRegistry()
	route := func(r *http.Request) string { return "/flows/{id}" }

	handler := Metrics(registry, route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/flows/flow-A-B-0", nil))

	got := testutil.ToFloat64(registry.HTTPRequestsTotal.WithLabelValues("GET", "/flows/{id}", "404"))
	if got != 1 {
		t.Errorf("Expected 1 request recorded, got %g", got)
	}
	if v := testutil.ToFloat64(registry.HTTPRequestsInFlight); v != 0 {
		t.Errorf("Expected 0 in flight, got %g", v)
	}
}

func TestMetrics_NilRegistry(t *testing.T) {
	rr := httptest.NewRecorder()
	Metrics(nil, nil)(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
}
