package controller

import (
	"time"

	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/events"
	"github.com/dd0wney/cluso-sdn/pkg/flows"
	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
	"github.com/dd0wney/cluso-sdn/pkg/metrics"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// Controller is the control plane: one topology, its link ledger and the
// flows routed over it. Every mutation keeps the three in step.
//
// Controller is not safe for concurrent use; callers serialize access.
type Controller struct {
	graph  *topology.Graph
	ledger *ledger.Ledger
	flows  *flows.Manager

	logger  logging.Logger
	metrics *metrics.Registry
	bus     *events.Bus
	audit   *audit.Logger
	limits  routing.Limits
	actor   string
}

// New creates an empty controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		graph:  topology.NewGraph(),
		ledger: ledger.New(),
		logger: logging.NewNopLogger(),
		limits: routing.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.Component("controller"))
	c.flows = flows.NewManager(c.graph, c.ledger, flows.WithPathFunc(c.timedShortestPath))
	return c
}

// As returns a view of the same control plane that attributes audit
// events to actor.
func (c *Controller) As(actor string) *Controller {
	view := *c
	view.actor = actor
	return &view
}

// AddSwitch registers a switch. It reports whether the switch is new.
func (c *Controller) AddSwitch(id string) bool {
	added := c.graph.AddNode(id)
	if !added {
		c.logger.Debug("switch already registered", logging.Switch(id))
		return false
	}

	c.logger.Info("switch added", logging.Switch(id))
	c.publish(events.Event{Topic: events.TopicSwitchAdded, Switch: id})
	c.record(audit.ActionAddSwitch, audit.ResourceSwitch, id, nil, nil)
	c.recordChange("switch_added")
	return true
}

// AddPort attaches a port number to a registered switch.
func (c *Controller) AddPort(id string, port int) error {
	if err := c.graph.AddPort(id, port); err != nil {
		c.logger.Warn("add port failed", logging.Switch(id), logging.Error(err))
		return err
	}
	c.logger.Debug("port added", logging.Switch(id), logging.Int("port", port))
	return nil
}

// RemovePort detaches a port number from a registered switch. Removing a
// port the switch does not have is a no-op.
func (c *Controller) RemovePort(id string, port int) (bool, error) {
	removed, err := c.graph.RemovePort(id, port)
	if err != nil {
		c.logger.Warn("remove port failed", logging.Switch(id), logging.Error(err))
		return false, err
	}
	if removed {
		c.logger.Debug("port removed", logging.Switch(id), logging.Int("port", port))
	}
	return removed, nil
}

// Ports returns the port list of a registered switch.
func (c *Controller) Ports(id string) ([]int, error) {
	return c.graph.Ports(id)
}

// ListSwitches returns switch ids in registration order.
func (c *Controller) ListSwitches() []string {
	return c.graph.Nodes()
}

// AddLink creates or replaces the bidirectional link between src and dst.
// Missing endpoints are registered. Usage already booked on a replaced link
// is kept against the new capacity.
func (c *Controller) AddLink(src, dst string, bandwidth float64) error {
	if err := c.graph.AddEdge(src, dst, bandwidth); err != nil {
		c.logger.Warn("add link rejected", logging.Link(src, dst), logging.Bandwidth(bandwidth), logging.Error(err))
		c.record(audit.ActionAddLink, audit.ResourceLink, linkID(src, dst), err, nil)
		return err
	}
	c.ledger.Register(src, dst, bandwidth)

	c.logger.Info("link added", logging.Link(src, dst), logging.Bandwidth(bandwidth))
	c.publish(events.Event{Topic: events.TopicLinkAdded, Src: src, Dst: dst, Bandwidth: bandwidth})
	c.record(audit.ActionAddLink, audit.ResourceLink, linkID(src, dst), nil, map[string]any{"bandwidth": bandwidth})
	c.recordChange("link_added")
	return nil
}

// RemoveLink deletes a link and reconfigures the flows that crossed it.
func (c *Controller) RemoveLink(src, dst string) (flows.Reconfiguration, error) {
	return c.removeLink("remove_link", audit.ActionRemoveLink, src, dst)
}

// SimulateLinkFailure takes a link down as if it had failed. It fails with
// topology.ErrLinkNotFound before touching any flow when the link does not
// exist.
func (c *Controller) SimulateLinkFailure(src, dst string) (flows.Reconfiguration, error) {
	return c.removeLink("simulate_link_failure", audit.ActionLinkFailure, src, dst)
}

func (c *Controller) removeLink(op string, action audit.Action, src, dst string) (flows.Reconfiguration, error) {
	stat, registered := c.ledger.Stat(src, dst)
	if !c.graph.RemoveEdge(src, dst) {
		err := topology.LinkNotFoundError(op, src, dst)
		c.logger.Warn("link not found", logging.Operation(op), logging.Link(src, dst))
		c.record(action, audit.ResourceLink, linkID(src, dst), err, nil)
		return flows.Reconfiguration{Src: src, Dst: dst, Rerouted: []string{}, Removed: []string{}}, err
	}
	c.ledger.Unregister(src, dst)
	if registered && c.metrics != nil {
		c.metrics.DeleteLinkStat(stat.Src, stat.Dst)
	}

	timer := logging.StartTimer(c.logger, "link removed", logging.Operation(op), logging.Link(src, dst))
	result := c.flows.HandleLinkRemoved(src, dst)
	timer.End(logging.Int("rerouted", len(result.Rerouted)), logging.Int("removed", len(result.Removed)))

	c.publish(events.Event{Topic: events.TopicLinkRemoved, Src: src, Dst: dst, Reason: op})
	for _, id := range result.Rerouted {
		f, _ := c.flows.Flow(id)
		c.publish(events.Event{Topic: events.TopicFlowRerouted, FlowID: id, Src: f.Src, Dst: f.Dst, Path: f.Path, Bandwidth: f.Bandwidth})
	}
	for _, id := range result.Removed {
		c.logger.Warn("flow dropped, no alternate path", logging.FlowID(id), logging.Link(src, dst))
		c.publish(events.Event{Topic: events.TopicFlowRemoved, FlowID: id, Reason: metrics.ReasonLinkFailure})
	}

	c.record(action, audit.ResourceLink, linkID(src, dst), nil, map[string]any{
		"rerouted": result.Rerouted,
		"removed":  result.Removed,
	})
	if c.metrics != nil {
		c.metrics.RecordReconfiguration(len(result.Rerouted), len(result.Removed))
	}
	c.recordChange("link_removed")
	return result, nil
}

// ComputeShortestPath returns the lowest-weight route between two switches.
func (c *Controller) ComputeShortestPath(src, dst string) ([]string, error) {
	return c.timedShortestPath(c.graph, src, dst)
}

// KShortestPaths returns up to k simple routes ordered by weight.
func (c *Controller) KShortestPaths(src, dst string, k int) ([]routing.Path, error) {
	start := time.Now()
	paths, err := routing.KShortestPaths(c.graph, src, dst, k, c.limits)
	if c.metrics != nil {
		c.metrics.RecordPathComputation(algorithmKShortest, pathStatus(err), time.Since(start))
	}
	return paths, err
}

// AddFlow admits a flow along the current shortest path and returns its id.
func (c *Controller) AddFlow(src, dst string, bandwidth, priority float64) (string, error) {
	f, err := c.flows.AddFlow(src, dst, bandwidth, priority)
	if err != nil {
		c.logger.Warn("flow rejected", logging.Link(src, dst), logging.Bandwidth(bandwidth), logging.Error(err))
		c.record(audit.ActionAddFlow, audit.ResourceFlow, "", err, map[string]any{"src": src, "dst": dst})
		if c.metrics != nil {
			c.metrics.RecordFlowAdmission(metrics.StatusRejected)
		}
		return "", err
	}

	c.logger.Info("flow admitted", logging.FlowID(f.ID), logging.Route(f.Path), logging.Bandwidth(f.Bandwidth))
	c.publish(events.Event{Topic: events.TopicFlowAdmitted, FlowID: f.ID, Src: f.Src, Dst: f.Dst, Path: f.Path, Bandwidth: f.Bandwidth})
	c.record(audit.ActionAddFlow, audit.ResourceFlow, f.ID, nil, map[string]any{"path": f.Path, "bandwidth": f.Bandwidth})
	if c.metrics != nil {
		c.metrics.RecordFlowAdmission(metrics.StatusAdmitted)
	}
	c.refreshMetrics()
	return f.ID, nil
}

// RemoveFlow withdraws a flow and releases its bandwidth.
func (c *Controller) RemoveFlow(id string) (flows.Flow, error) {
	f, err := c.flows.RemoveFlow(id)
	if err != nil {
		c.record(audit.ActionRemoveFlow, audit.ResourceFlow, id, err, nil)
		return flows.Flow{}, err
	}

	c.logger.Info("flow withdrawn", logging.FlowID(id))
	c.publish(events.Event{Topic: events.TopicFlowRemoved, FlowID: id, Src: f.Src, Dst: f.Dst, Reason: metrics.ReasonWithdrawn})
	c.record(audit.ActionRemoveFlow, audit.ResourceFlow, id, nil, nil)
	if c.metrics != nil {
		c.metrics.RecordFlowWithdrawn()
	}
	c.refreshMetrics()
	return *f, nil
}

// ListFlows returns the flow table in human-readable form.
func (c *Controller) ListFlows() []string {
	return c.flows.Table().Descriptors()
}

// Flows returns the active flows in admission order.
func (c *Controller) Flows() []flows.Flow {
	return c.flows.Flows()
}

// Flow returns one active flow.
func (c *Controller) Flow(id string) (flows.Flow, bool) {
	return c.flows.Flow(id)
}

// FlowTable returns every flow table entry, stale ones included.
func (c *Controller) FlowTable() []flows.Entry {
	return c.flows.Table().Entries()
}

// ClearFlowTable drops all entries installed on a switch and returns how
// many were removed. Active flows are not affected.
func (c *Controller) ClearFlowTable(sw string) int {
	removed := c.flows.Table().RemoveEntriesForSwitch(sw)
	c.logger.Info("flow table cleared", logging.Switch(sw), logging.Count(removed))
	c.record(audit.ActionClearFlowTable, audit.ResourceFlowTable, sw, nil, map[string]any{"removed": removed})
	c.refreshMetrics()
	return removed
}

// ShowLinkStats returns per-link capacity and utilization in registration
// order.
func (c *Controller) ShowLinkStats() []ledger.LinkStat {
	return c.ledger.Stats()
}

// VisualizeTopology returns a structural snapshot for renderers.
func (c *Controller) VisualizeTopology() topology.Snapshot {
	return c.graph.Snapshot()
}

// Edges returns every directed edge, both orientations of each link.
func (c *Controller) Edges() []topology.Edge {
	return c.graph.Edges()
}

func linkID(src, dst string) string {
	return src + "-" + dst
}
