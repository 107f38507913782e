package flows

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
)

// PathFunc computes a route between two switches.
type PathFunc func(g routing.Graph, src, dst string) ([]string, error)

// Option configures a Manager.
type Option func(*Manager)

// WithPathFunc replaces the route computation, e.g. to time it.
func WithPathFunc(fn PathFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.findPath = fn
		}
	}
}

// Manager owns the flow lifecycle: admission, ledger charging, flow table
// generation and failure-driven rerouting. It reads the graph it was given
// and never mutates it.
//
// Manager is not safe for concurrent use.
type Manager struct {
	graph    routing.Graph
	ledger   *ledger.Ledger
	table    *Table
	findPath PathFunc

	flows map[string]*Flow
	order []string
	seq   int
}

// NewManager creates a flow manager over a graph and its ledger.
func NewManager(g routing.Graph, l *ledger.Ledger, opts ...Option) *Manager {
	m := &Manager{
		graph:    g,
		ledger:   l,
		table:    NewTable(),
		findPath: routing.ShortestPath,
		flows:    make(map[string]*Flow),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddFlow admits a flow along the current shortest path. When no path
// exists nothing is recorded and the routing error is returned.
func (m *Manager) AddFlow(src, dst string, bandwidth, priority float64) (*Flow, error) {
	if !(bandwidth > 0) || math.IsInf(bandwidth, 1) {
		return nil, NewError("add_flow").Endpoints(src, dst).Context(fmt.Sprintf("bandwidth %g", bandwidth)).Cause(ErrInvalidDemand).Err()
	}

	path, err := m.findPath(m.graph, src, dst)
	if err != nil {
		return nil, NewError("add_flow").Endpoints(src, dst).Cause(err).Err()
	}

	f := &Flow{
		ID:        fmt.Sprintf("flow-%s-%s-%d", src, dst, m.seq),
		Src:       src,
		Dst:       dst,
		Path:      path,
		Bandwidth: bandwidth,
		Priority:  priority,
		State:     StatePending,
	}
	m.seq++

	m.flows[f.ID] = f
	m.order = append(m.order, f.ID)
	m.ledger.AddPathUsage(f.Path, f.ID, f.Bandwidth)
	m.table.install(f)

	if err := f.transition(StateActive); err != nil {
		return nil, err
	}
	c := f.Clone()
	return &c, nil
}

// HandleLinkRemoved reroutes or drops every flow whose path hops from src to
// dst. Flows crossing the link in the other direction are left alone. The
// graph must already reflect the removal. Flows are processed in admission
// order.
func (m *Manager) HandleLinkRemoved(src, dst string) Reconfiguration {
	result := Reconfiguration{Src: src, Dst: dst, Rerouted: []string{}, Removed: []string{}}

	var affected []*Flow
	for _, id := range m.order {
		if f := m.flows[id]; f.UsesLink(src, dst) {
			affected = append(affected, f)
		}
	}

	for _, f := range affected {
		m.ledger.RemovePathUsage(f.Path, f.ID, f.Bandwidth)

		path, err := m.findPath(m.graph, f.Src, f.Dst)
		if err != nil {
			m.delete(f)
			result.Removed = append(result.Removed, f.ID)
			continue
		}

		f.Path = path
		f.Reroutes++
		_ = f.transition(StateRerouted)
		m.ledger.AddPathUsage(f.Path, f.ID, f.Bandwidth)
		m.table.install(f)
		result.Rerouted = append(result.Rerouted, f.ID)
	}

	return result
}

// RemoveFlow withdraws a flow and releases its ledger usage. Its flow table
// entries are left in place.
func (m *Manager) RemoveFlow(id string) (*Flow, error) {
	f, ok := m.flows[id]
	if !ok {
		return nil, NewError("remove_flow").Flow(id).Cause(ErrFlowNotFound).Err()
	}
	m.ledger.RemovePathUsage(f.Path, f.ID, f.Bandwidth)
	m.delete(f)
	c := f.Clone()
	return &c, nil
}

func (m *Manager) delete(f *Flow) {
	_ = f.transition(StateRemoved)
	delete(m.flows, f.ID)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == f.ID })
}

// Flow returns a copy of an active flow.
func (m *Manager) Flow(id string) (Flow, bool) {
	f, ok := m.flows[id]
	if !ok {
		return Flow{}, false
	}
	return f.Clone(), true
}

// Flows returns copies of all active flows in admission order.
func (m *Manager) Flows() []Flow {
	result := make([]Flow, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.flows[id].Clone())
	}
	return result
}

// Len returns the number of active flows.
func (m *Manager) Len() int {
	return len(m.order)
}

// Table returns the flow table.
func (m *Manager) Table() *Table {
	return m.table
}
