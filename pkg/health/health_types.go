package health

import (
	"sync"
	"time"

	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Probe selects which endpoints run a check. Values combine with |.
type Probe uint8

const (
	ProbeHealth Probe = 1 << iota
	ProbeReadiness
	ProbeLiveness
)

// Check is the result of one health check
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"-"`
	DurationMS  float64        `json:"duration_ms"`
}

// CheckFunc performs one health check
type CheckFunc func() Check

type registration struct {
	name   string
	check  CheckFunc
	probes Probe
}

// HealthChecker runs registered checks for the health, readiness and
// liveness endpoints
type HealthChecker struct {
	mu      sync.RWMutex
	checks  []registration
	started time.Time
}

// Response aggregates the checks run for one probe. Order lists check
// names in registration order.
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Order     []string         `json:"order"`
	Uptime    float64          `json:"uptime_seconds"`
}

// ControlPlane is the read-only view of controller state the consistency
// checks inspect.
type ControlPlane interface {
	Edges() []topology.Edge
	ShowLinkStats() []ledger.LinkStat
	Flows() []flows.Flow
}
