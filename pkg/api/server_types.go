package api

import (
	"sync"
	"time"

	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/auth"
	"github.com/dd0wney/cluso-sdn/pkg/config"
	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/graphql"
	"github.com/dd0wney/cluso-sdn/pkg/health"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
	"github.com/dd0wney/cluso-sdn/pkg/metrics"
)

// Server is the HTTP API over one controller. The controller is not safe
// for concurrent use, so every handler that touches it holds mu.
type Server struct {
	mu         sync.Mutex
	controller *controller.Controller

	config         *config.Config
	logger         logging.Logger
	metrics        *metrics.Registry
	audit          *audit.Logger
	validator      auth.TokenValidator
	healthChecker  *health.HealthChecker
	graphqlHandler *graphql.Handler
	startTime      time.Time
}

// Options wires a server. Controller is required; Config defaults to
// config.Default(). Validator is required when auth is enabled.
type Options struct {
	Controller *controller.Controller
	Config     *config.Config
	Logger     logging.Logger
	Metrics    *metrics.Registry
	Audit      *audit.Logger
	Validator  auth.TokenValidator
}
