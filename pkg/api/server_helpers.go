package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
	"github.com/dd0wney/cluso-sdn/pkg/topology"
	"github.com/dd0wney/cluso-sdn/pkg/validation"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondControllerError maps control-plane errors to HTTP statuses.
// Unknown errors are logged and reported without internal detail.
func (s *Server) respondControllerError(w http.ResponseWriter, op string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("controller operation failed", logging.Operation(op), logging.Error(err))
		s.respondError(w, status, fmt.Sprintf("%s failed", op))
		return
	}
	s.respondError(w, status, err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, topology.ErrUnknownNode),
		errors.Is(err, topology.ErrLinkNotFound),
		errors.Is(err, flows.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, routing.ErrNoPath),
		errors.Is(err, routing.ErrEnumerationLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, topology.ErrInvalidBandwidth),
		errors.Is(err, flows.ErrInvalidDemand),
		errors.Is(err, routing.ErrInvalidPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest decodes a JSON body into req and validates it. It writes
// the error response itself and reports whether the handler may continue.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := validation.ValidateRequest(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// linkRefFromQuery reads src and dst query parameters
func (s *Server) linkRefFromQuery(w http.ResponseWriter, r *http.Request) (validation.LinkRefRequest, bool) {
	req := validation.LinkRefRequest{
		Src: r.URL.Query().Get("src"),
		Dst: r.URL.Query().Get("dst"),
	}
	if err := validation.ValidateRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

// intQuery parses an optional integer query parameter
func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: must be an integer", name)
	}
	return v, nil
}

// withController runs fn holding the controller lock, with audit events
// attributed to the caller
func (s *Server) withController(r *http.Request, fn func(c *controller.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.controller.As(actor(r)))
}
