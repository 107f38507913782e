package api

import (
	"net/http"

	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
	"github.com/dd0wney/cluso-sdn/pkg/validation"
)

// pathRequest reads src, dst and k from the query string
func (s *Server) pathRequest(w http.ResponseWriter, r *http.Request) (validation.PathRequest, bool) {
	k, err := intQuery(r, "k", s.config.Routing.DefaultK)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return validation.PathRequest{}, false
	}
	req := validation.PathRequest{
		Src: r.URL.Query().Get("src"),
		Dst: r.URL.Query().Get("dst"),
		K:   k,
	}
	if err := validation.ValidateRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	req, ok := s.pathRequest(w, r)
	if !ok {
		return
	}

	var path []string
	var err error
	s.withController(r, func(c *controller.Controller) {
		path, err = c.ComputeShortestPath(req.Src, req.Dst)
	})
	if err != nil {
		s.respondControllerError(w, "compute_shortest_path", err)
		return
	}
	s.respondJSON(w, http.StatusOK, PathResponse{
		Src:  req.Src,
		Dst:  req.Dst,
		Path: path,
		Hops: routing.Path{Nodes: path}.Hops(),
	})
}

func (s *Server) handleKShortestPaths(w http.ResponseWriter, r *http.Request) {
	req, ok := s.pathRequest(w, r)
	if !ok {
		return
	}

	var paths []routing.Path
	var err error
	s.withController(r, func(c *controller.Controller) {
		paths, err = c.KShortestPaths(req.Src, req.Dst, req.K)
	})
	if err != nil {
		s.respondControllerError(w, "k_shortest_paths", err)
		return
	}
	s.respondJSON(w, http.StatusOK, PathsResponse{Src: req.Src, Dst: req.Dst, Paths: paths})
}
