package api

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-sdn/pkg/api/middleware"
	"github.com/dd0wney/cluso-sdn/pkg/config"
	"github.com/dd0wney/cluso-sdn/pkg/graphql"
	"github.com/dd0wney/cluso-sdn/pkg/health"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
)

// ErrNoController is returned by NewServer without a controller
var ErrNoController = errors.New("api: controller is required")

// ErrNoValidator is returned by NewServer when auth is enabled without a
// token validator
var ErrNoValidator = errors.New("api: auth enabled without a token validator")

// NewServer creates the API server and registers its health checks
func NewServer(opts Options) (*Server, error) {
	if opts.Controller == nil {
		return nil, ErrNoController
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.Auth.Enabled && opts.Validator == nil {
		return nil, ErrNoValidator
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &Server{
		controller:    opts.Controller,
		config:        cfg,
		logger:        logger.With(logging.Component("api")),
		metrics:       opts.Metrics,
		audit:         opts.Audit,
		validator:     opts.Validator,
		healthChecker: health.NewHealthChecker(),
		startTime:     time.Now(),
	}

	schema, err := graphql.NewSchema(s.controller)
	if err != nil {
		return nil, err
	}
	s.graphqlHandler = graphql.NewHandler(schema, &s.mu, graphql.DefaultMaxDepth)

	s.registerHealthChecks()
	return s, nil
}

func (s *Server) registerHealthChecks() {
	s.healthChecker.Register("api", func() health.Check {
		return health.Check{Status: health.StatusHealthy, Message: "serving"}
	}, health.ProbeLiveness)

	consistency := health.ProbeHealth | health.ProbeReadiness
	s.healthChecker.Register("topology", health.Guarded(&s.mu, health.TopologySymmetryCheck(s.controller)), consistency)
	s.healthChecker.Register("ledger", health.Guarded(&s.mu, health.LedgerSyncCheck(s.controller)), consistency)
	s.healthChecker.Register("flows", health.Guarded(&s.mu, health.FlowPathCheck(s.controller)), health.ProbeHealth)
	s.healthChecker.Register("memory", health.MemoryCheck(func() (uint64, uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.Alloc, m.Sys
	}), health.ProbeHealth)
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthChecker.HTTPHandler())
	mux.HandleFunc("GET /health/ready", s.healthChecker.ReadinessHandler())
	mux.HandleFunc("GET /health/live", s.healthChecker.LivenessHandler())
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("GET /switches", s.requireAuth(s.handleListSwitches))
	mux.HandleFunc("POST /switches", s.requireOperator(s.handleAddSwitch))

	mux.HandleFunc("GET /links", s.requireAuth(s.handleLinkStats))
	mux.HandleFunc("POST /links", s.requireOperator(s.handleAddLink))
	mux.HandleFunc("DELETE /links", s.requireOperator(s.handleRemoveLink))
	mux.HandleFunc("POST /links/fail", s.requireOperator(s.handleLinkFailure))

	mux.HandleFunc("GET /paths/shortest", s.requireAuth(s.handleShortestPath))
	mux.HandleFunc("GET /paths/k", s.requireAuth(s.handleKShortestPaths))

	mux.HandleFunc("GET /flows", s.requireAuth(s.handleListFlows))
	mux.HandleFunc("POST /flows", s.requireOperator(s.handleAddFlow))
	mux.HandleFunc("GET /flows/{id}", s.requireAuth(s.handleGetFlow))
	mux.HandleFunc("DELETE /flows/{id}", s.requireOperator(s.handleRemoveFlow))

	mux.HandleFunc("GET /flow-table", s.requireAuth(s.handleFlowTable))
	mux.HandleFunc("DELETE /flow-table/{switch}", s.requireOperator(s.handleClearFlowTable))

	mux.HandleFunc("GET /stats/links", s.requireAuth(s.handleLinkStats))
	mux.HandleFunc("GET /topology", s.requireAuth(s.handleTopology))
	mux.HandleFunc("GET /audit", s.requireAuth(s.handleAudit))
	mux.HandleFunc("POST /scenario", s.requireOperator(s.handleApplyScenario))
	mux.Handle("POST /graphql", s.requireAuth(s.graphqlHandler.ServeHTTP))

	// Outermost first: recovery sees panics from every layer
	var handler http.Handler = mux
	handler = middleware.Metrics(s.metrics, routeLabel)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.SecurityHeaders()(handler)
	handler = middleware.CORS(s.corsConfig())(handler)
	handler = middleware.BodySizeLimit(s.config.Server.MaxBodyBytes)(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	return handler
}

func (s *Server) corsConfig() *middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowedOrigins = s.config.Server.AllowedOrigins
	return cfg
}

// routeLabel uses the matched mux pattern so path parameters stay out of
// metric labels
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

// RunMetricsUpdater refreshes uptime and runtime gauges until ctx ends
func (s *Server) RunMetricsUpdater(ctx context.Context, interval time.Duration) {
	if s.metrics == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.metrics.UpdateSystemMetrics(s.startTime)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Lock exposes the controller lock to in-process callers such as the
// scenario loader. Handlers already hold it.
func (s *Server) Lock() { s.mu.Lock() }

// Unlock releases the controller lock
func (s *Server) Unlock() { s.mu.Unlock() }
