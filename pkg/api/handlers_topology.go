package api

import (
	"net/http"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/topology"
	"github.com/dd0wney/cluso-sdn/pkg/validation"
	"github.com/dd0wney/cluso-sdn/pkg/visualization"
)

func (s *Server) handleListSwitches(w http.ResponseWriter, r *http.Request) {
	var ids []string
	s.withController(r, func(c *controller.Controller) {
		ids = c.ListSwitches()
	})
	s.respondJSON(w, http.StatusOK, SwitchListResponse{Switches: ids, Count: len(ids)})
}

// handleAddSwitch registers a switch. Re-adding an existing switch is not
// an error; its ports are merged.
func (s *Server) handleAddSwitch(w http.ResponseWriter, r *http.Request) {
	var req validation.SwitchRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var created bool
	var ports []int
	var err error
	s.withController(r, func(c *controller.Controller) {
		created = c.AddSwitch(req.ID)
		for _, port := range req.Ports {
			if err = c.AddPort(req.ID, port); err != nil {
				return
			}
		}
		ports, err = c.Ports(req.ID)
	})
	if err != nil {
		s.respondControllerError(w, "add_switch", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, SwitchResponse{ID: req.ID, Created: created, Ports: ports})
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req validation.LinkRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var edge topology.Edge
	var err error
	s.withController(r, func(c *controller.Controller) {
		if err = c.AddLink(req.Src, req.Dst, req.Bandwidth); err != nil {
			return
		}
		for _, e := range c.Edges() {
			if e.Src == req.Src && e.Dst == req.Dst {
				edge = e
				break
			}
		}
	})
	if err != nil {
		s.respondControllerError(w, "add_link", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, edge)
}

// handleRemoveLink takes the link from query parameters: DELETE /links?src=A&dst=B
func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.linkRefFromQuery(w, r)
	if !ok {
		return
	}
	s.removeLink(w, r, "remove_link", ref, (*controller.Controller).RemoveLink)
}

func (s *Server) handleLinkFailure(w http.ResponseWriter, r *http.Request) {
	var ref validation.LinkRefRequest
	if !s.decodeRequest(w, r, &ref) {
		return
	}
	s.removeLink(w, r, "simulate_link_failure", ref, (*controller.Controller).SimulateLinkFailure)
}

func (s *Server) removeLink(w http.ResponseWriter, r *http.Request, op string, ref validation.LinkRefRequest,
	remove func(*controller.Controller, string, string) (flows.Reconfiguration, error)) {
	var result flows.Reconfiguration
	var err error
	s.withController(r, func(c *controller.Controller) {
		result, err = remove(c, ref.Src, ref.Dst)
	})
	if err != nil {
		s.respondControllerError(w, op, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleLinkStats(w http.ResponseWriter, r *http.Request) {
	var stats []ledger.LinkStat
	s.withController(r, func(c *controller.Controller) {
		stats = c.ShowLinkStats()
	})
	s.respondJSON(w, http.StatusOK, LinkStatsResponse{Links: linkStatResponses(stats), Count: len(stats)})
}

// handleTopology renders the topology with a layout. format=dot returns
// Graphviz text instead of JSON.
func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("layout")
	if name == "" {
		name = s.config.Visualization.Layout
	}
	layout, err := visualization.NewLayout(name, visualization.LayoutConfig{
		Width:  s.config.Visualization.Width,
		Height: s.config.Visualization.Height,
	})
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var snapshot topology.Snapshot
	var stats []ledger.LinkStat
	s.withController(r, func(c *controller.Controller) {
		snapshot = c.VisualizeTopology()
		stats = c.ShowLinkStats()
	})

	view, err := visualization.Build(snapshot, stats, layout)
	if err != nil {
		s.respondControllerError(w, "visualize_topology", err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		s.respondJSON(w, http.StatusOK, view)
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(view.DOT()))
	default:
		s.respondError(w, http.StatusBadRequest, "format: must be json or dot")
	}
}
