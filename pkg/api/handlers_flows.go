package api

import (
	"net/http"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/validation"
)

func (s *Server) handleListFlows(w http.ResponseWriter, r *http.Request) {
	var list []flows.Flow
	s.withController(r, func(c *controller.Controller) {
		list = c.Flows()
	})
	s.respondJSON(w, http.StatusOK, FlowListResponse{Flows: list, Count: len(list)})
}

func (s *Server) handleAddFlow(w http.ResponseWriter, r *http.Request) {
	var req validation.FlowRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var flow flows.Flow
	var err error
	s.withController(r, func(c *controller.Controller) {
		var id string
		if id, err = c.AddFlow(req.Src, req.Dst, req.Bandwidth, req.Priority); err != nil {
			return
		}
		flow, _ = c.Flow(id)
	})
	if err != nil {
		s.respondControllerError(w, "add_flow", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, FlowResponse{ID: flow.ID, Flow: flow})
}

func (s *Server) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var flow flows.Flow
	var ok bool
	s.withController(r, func(c *controller.Controller) {
		flow, ok = c.Flow(id)
	})
	if !ok {
		s.respondError(w, http.StatusNotFound, flows.ErrFlowNotFound.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, FlowResponse{ID: flow.ID, Flow: flow})
}

func (s *Server) handleRemoveFlow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var flow flows.Flow
	var err error
	s.withController(r, func(c *controller.Controller) {
		flow, err = c.RemoveFlow(id)
	})
	if err != nil {
		s.respondControllerError(w, "remove_flow", err)
		return
	}
	s.respondJSON(w, http.StatusOK, FlowResponse{ID: flow.ID, Flow: flow})
}

func (s *Server) handleFlowTable(w http.ResponseWriter, r *http.Request) {
	var resp FlowTableResponse
	s.withController(r, func(c *controller.Controller) {
		resp.Entries = c.FlowTable()
		resp.Descriptors = c.ListFlows()
	})
	if sw := r.URL.Query().Get("switch"); sw != "" {
		resp = filterFlowTable(resp, sw)
	}
	resp.Count = len(resp.Entries)
	s.respondJSON(w, http.StatusOK, resp)
}

// filterFlowTable keeps the entries of one switch
func filterFlowTable(resp FlowTableResponse, sw string) FlowTableResponse {
	var filtered FlowTableResponse
	for _, e := range resp.Entries {
		if e.Switch == sw {
			filtered.Entries = append(filtered.Entries, e)
			filtered.Descriptors = append(filtered.Descriptors, e.String())
		}
	}
	return filtered
}

func (s *Server) handleClearFlowTable(w http.ResponseWriter, r *http.Request) {
	sw := r.PathValue("switch")
	if err := validation.ValidateSwitchID(sw); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var removed int
	s.withController(r, func(c *controller.Controller) {
		removed = c.ClearFlowTable(sw)
	})
	s.respondJSON(w, http.StatusOK, ClearFlowTableResponse{Switch: sw, Removed: removed})
}
