package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/auth"
	"github.com/dd0wney/cluso-sdn/pkg/config"
	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/metrics"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testServer struct {
	*Server
	handler http.Handler
	audit   *audit.Logger
	jwt     *auth.JWTManager
}

func newTestServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.Enabled = authEnabled
	cfg.Auth.JWTSecret = testSecret

	jwtManager, err := auth.NewJWTManager(testSecret, 0)
	require.NoError(t, err)

	auditLog := audit.NewLogger(100)
	registry := metrics.NewRegistry()
	c := controller.New(controller.WithAudit(auditLog), controller.WithMetrics(registry))

	s, err := NewServer(Options{
		Controller: c,
		Config:     cfg,
		Metrics:    registry,
		Audit:      auditLog,
		Validator:  jwtManager,
	})
	require.NoError(t, err)
	return &testServer{Server: s, handler: s.Handler(), audit: auditLog, jwt: jwtManager}
}

// do sends a request with an optional JSON body and bearer token
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// buildDiamond creates A-B-D and A-C-D where the B side is faster
func (ts *testServer) buildDiamond(t *testing.T, token string) {
	t.Helper()
	for _, l := range []map[string]any{
		{"src": "A", "dst": "B", "bandwidth": 10},
		{"src": "B", "dst": "D", "bandwidth": 10},
		{"src": "A", "dst": "C", "bandwidth": 5},
		{"src": "C", "dst": "D", "bandwidth": 5},
	} {
		rec := ts.do(t, http.MethodPost, "/links", l, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestNewServer_Requirements(t *testing.T) {
	_, err := NewServer(Options{})
	assert.ErrorIs(t, err, ErrNoController)

	cfg := config.Default()
	cfg.Auth.Enabled = true
	_, err = NewServer(Options{Controller: controller.New(), Config: cfg})
	assert.ErrorIs(t, err, ErrNoValidator)

	s, err := NewServer(Options{Controller: controller.New()})
	require.NoError(t, err)
	assert.NotNil(t, s.Handler())
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, true)
	ts.buildDiamondUnauthenticated(t)

	for _, path := range []string{"/health", "/health/ready", "/health/live"} {
		rec := ts.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := ts.do(t, http.MethodGet, "/health", nil, "")
	body := decode[map[string]any](t, rec)
	checks := body["checks"].(map[string]any)
	require.Contains(t, checks, "ledger")
	assert.Equal(t, "healthy", checks["ledger"].(map[string]any)["status"])
	assert.Equal(t, "healthy", checks["flows"].(map[string]any)["status"])
}

// buildDiamondUnauthenticated seeds the controller directly, bypassing auth
func (ts *testServer) buildDiamondUnauthenticated(t *testing.T) {
	t.Helper()
	ts.Lock()
	defer ts.Unlock()
	require.NoError(t, ts.controller.AddLink("A", "B", 10))
	require.NoError(t, ts.controller.AddLink("B", "D", 10))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, false)
	ts.buildDiamond(t, "")

	rec := ts.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "sdn_switches_total 4")
	assert.Contains(t, body, "sdn_http_requests_total")
}

func TestSecurityAndRequestIDHeaders(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodGet, "/switches", nil, "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t, false)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/nodes", nil, "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, ts.do(t, http.MethodPut, "/switches", nil, "").Code)
}

func TestBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, false)
	ts.config.Server.MaxBodyBytes = 16
	ts.handler = ts.Handler()

	rec := ts.do(t, http.MethodPost, "/switches", map[string]any{"id": strings.Repeat("S", 40)}, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
