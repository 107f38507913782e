package api

import (
	"io"
	"net/http"

	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/config"
	"github.com/dd0wney/cluso-sdn/pkg/controller"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 1000
)

// handleAudit returns recent audit events, newest first. Optional action,
// resource_type and actor parameters filter the result.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		s.respondError(w, http.StatusServiceUnavailable, "audit log not enabled")
		return
	}

	limit, err := intQuery(r, "limit", defaultAuditLimit)
	if err != nil || limit < 1 {
		s.respondError(w, http.StatusBadRequest, "limit: must be a positive integer")
		return
	}
	limit = min(limit, maxAuditLimit)

	q := r.URL.Query()
	filter := &audit.Filter{
		Actor:        q.Get("actor"),
		Action:       audit.Action(q.Get("action")),
		ResourceType: audit.ResourceType(q.Get("resource_type")),
	}

	var events []*audit.Event
	if filter.Actor == "" && filter.Action == "" && filter.ResourceType == "" {
		events = s.audit.GetRecentEvents(limit)
	} else {
		events = newestFirst(s.audit.GetEvents(filter), limit)
	}
	s.respondJSON(w, http.StatusOK, AuditResponse{
		Events: events,
		Count:  len(events),
		Total:  s.audit.TotalLogged(),
	})
}

// newestFirst reverses oldest-first events and keeps at most limit
func newestFirst(events []*audit.Event, limit int) []*audit.Event {
	n := min(limit, len(events))
	result := make([]*audit.Event, 0, n)
	for i := len(events) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, events[i])
	}
	return result
}

// handleApplyScenario applies a scenario document. The body may be YAML
// or JSON.
func (s *Server) handleApplyScenario(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	scenario, err := config.ParseScenario(body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result controller.ScenarioResult
	s.withController(r, func(c *controller.Controller) {
		result, err = c.Apply(scenario)
	})
	if err != nil {
		s.respondControllerError(w, "apply_scenario", err)
		return
	}
	s.respondJSON(w, http.StatusOK, ScenarioResponse{
		Name:             scenario.Name,
		FlowIDs:          result.FlowIDs,
		Reconfigurations: result.Reconfigurations,
	})
}
