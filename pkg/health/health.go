package health

import (
	"time"

	"golang.org/x/exp/slices"
)

// NewHealthChecker creates a checker with no registered checks
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{started: time.Now()}
}

// Register adds a named check to the given probes. Registering an existing
// name replaces it and keeps its position.
func (hc *HealthChecker) Register(name string, check CheckFunc, probes Probe) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	entry := registration{name: name, check: check, probes: probes}
	if i := slices.IndexFunc(hc.checks, func(r registration) bool { return r.name == name }); i >= 0 {
		hc.checks[i] = entry
		return
	}
	hc.checks = append(hc.checks, entry)
}

// Check runs the checks registered for the health probe
func (hc *HealthChecker) Check() Response {
	return hc.run(ProbeHealth)
}

// CheckReadiness runs the readiness checks
func (hc *HealthChecker) CheckReadiness() Response {
	return hc.run(ProbeReadiness)
}

// CheckLiveness runs the liveness checks
func (hc *HealthChecker) CheckLiveness() Response {
	return hc.run(ProbeLiveness)
}

// run executes matching checks in registration order. The worst status wins.
func (hc *HealthChecker) run(probe Probe) Response {
	hc.mu.RLock()
	selected := make([]registration, 0, len(hc.checks))
	for _, r := range hc.checks {
		if r.probes&probe != 0 {
			selected = append(selected, r)
		}
	}
	hc.mu.RUnlock()

	now := time.Now()
	response := Response{
		Status:    StatusHealthy,
		Timestamp: now,
		Checks:    make(map[string]Check, len(selected)),
		Order:     make([]string, 0, len(selected)),
		Uptime:    now.Sub(hc.started).Seconds(),
	}

	for _, r := range selected {
		start := time.Now()
		check := r.check()
		check.Duration = time.Since(start)
		check.DurationMS = float64(check.Duration.Microseconds()) / 1000
		check.LastChecked = start
		if check.Name == "" {
			check.Name = r.name
		}
		response.Checks[r.name] = check
		response.Order = append(response.Order, r.name)

		if severity(check.Status) > severity(response.Status) {
			response.Status = check.Status
		}
	}
	return response
}

func severity(s Status) int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}
