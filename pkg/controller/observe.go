package controller

import (
	"errors"
	"time"

	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/events"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
)

const (
	algorithmDijkstra  = "dijkstra"
	algorithmKShortest = "k_shortest"
)

func pathStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, routing.ErrNoPath):
		return "no_path"
	case errors.Is(err, routing.ErrUnknownNode):
		return "unknown_switch"
	default:
		return "error"
	}
}

// timedShortestPath is the route computation handed to the flow manager.
func (c *Controller) timedShortestPath(g routing.Graph, src, dst string) ([]string, error) {
	start := time.Now()
	path, err := routing.ShortestPath(g, src, dst)
	if c.metrics != nil {
		c.metrics.RecordPathComputation(algorithmDijkstra, pathStatus(err), time.Since(start))
	}
	return path, err
}

func (c *Controller) publish(e events.Event) {
	if c.bus == nil {
		return
	}
	_, dropped := c.bus.Publish(e)
	if c.metrics != nil {
		c.metrics.RecordEvent(string(e.Topic), dropped)
	}
}

func (c *Controller) record(action audit.Action, resource audit.ResourceType, id string, err error, metadata map[string]any) {
	c.audit.Record(c.actor, action, resource, id, err, metadata)
}

func (c *Controller) recordChange(change string) {
	if c.metrics != nil {
		c.metrics.RecordTopologyChange(change)
	}
	c.refreshMetrics()
}

// refreshMetrics republishes the gauges derived from controller state.
func (c *Controller) refreshMetrics() {
	if c.metrics == nil {
		return
	}
	c.metrics.SetTopologySize(c.graph.NodeCount(), len(c.graph.Links()))
	c.metrics.SetFlowState(c.flows.Len(), c.flows.Table().Len())
	for _, s := range c.ledger.Stats() {
		c.metrics.SetLinkStat(s.Src, s.Dst, s.Capacity, s.Utilization, s.Ratio)
	}
}
