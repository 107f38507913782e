package health

import (
	"encoding/json"
	"net/http"
)

// handler serves one probe. Only the health probe answers 200 for a
// degraded result.
func (hc *HealthChecker) handler(probe Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := hc.run(probe)

		code := http.StatusServiceUnavailable
		if response.Status == StatusHealthy || (response.Status == StatusDegraded && probe == ProbeHealth) {
			code = http.StatusOK
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(response)
	}
}

// HTTPHandler serves /health
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc { return hc.handler(ProbeHealth) }

// ReadinessHandler serves /health/ready
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc { return hc.handler(ProbeReadiness) }

// LivenessHandler serves /health/live
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc { return hc.handler(ProbeLiveness) }
