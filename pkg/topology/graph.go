package topology

import (
	"math"

	"golang.org/x/exp/slices"
)

// Graph is an undirected weighted graph of switches and links. Links are
// stored as a pair of directed edges so lookups by (src, dst) are direction
// sensitive but always symmetric.
//
// Graph is not safe for concurrent use; callers serialize access.
type Graph struct {
	switches  map[string]*Switch
	order     []string
	adjacency map[string][]string
	edges     map[edgeKey]Edge
	edgeOrder []edgeKey
}

// NewGraph creates an empty topology.
func NewGraph() *Graph {
	return &Graph{
		switches:  make(map[string]*Switch),
		adjacency: make(map[string][]string),
		edges:     make(map[edgeKey]Edge),
	}
}

// AddNode registers a switch. It returns false when the switch already exists.
func (g *Graph) AddNode(id string) bool {
	if _, exists := g.switches[id]; exists {
		return false
	}
	g.switches[id] = &Switch{ID: id}
	g.order = append(g.order, id)
	return true
}

// HasNode reports whether the switch is registered.
func (g *Graph) HasNode(id string) bool {
	_, exists := g.switches[id]
	return exists
}

// NodeCount returns the number of registered switches.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// Nodes returns switch IDs in registration order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.order)
}

// AddPort appends a port number to a switch. Ports already present are
// skipped.
func (g *Graph) AddPort(id string, port int) error {
	sw, exists := g.switches[id]
	if !exists {
		return UnknownSwitchError("add_port", id)
	}
	if !slices.Contains(sw.Ports, port) {
		sw.Ports = append(sw.Ports, port)
	}
	return nil
}

// RemovePort drops a port number from a switch. It returns false when the
// switch has no such port.
func (g *Graph) RemovePort(id string, port int) (bool, error) {
	sw, exists := g.switches[id]
	if !exists {
		return false, UnknownSwitchError("remove_port", id)
	}
	i := slices.Index(sw.Ports, port)
	if i < 0 {
		return false, nil
	}
	sw.Ports = slices.Delete(sw.Ports, i, i+1)
	return true, nil
}

// Ports returns the port list of a switch.
func (g *Graph) Ports(id string) ([]int, error) {
	sw, exists := g.switches[id]
	if !exists {
		return nil, UnknownSwitchError("ports", id)
	}
	return slices.Clone(sw.Ports), nil
}

// AddEdge creates or overwrites the link between src and dst in both
// directions. Missing endpoints are registered.
func (g *Graph) AddEdge(src, dst string, bandwidth float64) error {
	if !(bandwidth > 0) || math.IsInf(bandwidth, 1) {
		return InvalidBandwidthError(src, dst, bandwidth)
	}

	g.AddNode(src)
	g.AddNode(dst)

	weight := 1 / bandwidth
	g.putEdge(Edge{Src: src, Dst: dst, Bandwidth: bandwidth, Weight: weight})
	g.putEdge(Edge{Src: dst, Dst: src, Bandwidth: bandwidth, Weight: weight})
	return nil
}

func (g *Graph) putEdge(e Edge) {
	key := edgeKey{src: e.Src, dst: e.Dst}
	if _, exists := g.edges[key]; !exists {
		g.edgeOrder = append(g.edgeOrder, key)
		g.adjacency[e.Src] = append(g.adjacency[e.Src], e.Dst)
	}
	g.edges[key] = e
}

// RemoveEdge removes the link between src and dst in both directions. It
// returns false when no such link exists.
func (g *Graph) RemoveEdge(src, dst string) bool {
	if !g.HasEdge(src, dst) {
		return false
	}
	g.dropEdge(src, dst)
	g.dropEdge(dst, src)
	return true
}

func (g *Graph) dropEdge(src, dst string) {
	key := edgeKey{src: src, dst: dst}
	if _, exists := g.edges[key]; !exists {
		return
	}
	delete(g.edges, key)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(k edgeKey) bool { return k == key })
	g.adjacency[src] = slices.DeleteFunc(g.adjacency[src], func(n string) bool { return n == dst })
}

// HasEdge reports whether the directed edge src->dst exists.
func (g *Graph) HasEdge(src, dst string) bool {
	_, exists := g.edges[edgeKey{src: src, dst: dst}]
	return exists
}

// Edge returns the directed edge src->dst.
func (g *Graph) Edge(src, dst string) (Edge, bool) {
	e, exists := g.edges[edgeKey{src: src, dst: dst}]
	return e, exists
}

// Weight returns the routing weight of the edge src->dst.
func (g *Graph) Weight(src, dst string) (float64, bool) {
	e, exists := g.edges[edgeKey{src: src, dst: dst}]
	return e.Weight, exists
}

// Neighbors returns the switches adjacent to id in the order their links
// were first created. The returned slice must not be modified.
func (g *Graph) Neighbors(id string) []string {
	return g.adjacency[id]
}

// Edges returns every directed edge in creation order.
func (g *Graph) Edges() []Edge {
	result := make([]Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		result = append(result, g.edges[key])
	}
	return result
}

// Links returns one edge per undirected link, oriented the way it was first
// created.
func (g *Graph) Links() []Edge {
	seen := make(map[edgeKey]bool, len(g.edgeOrder))
	result := make([]Edge, 0, len(g.edgeOrder)/2)
	for _, key := range g.edgeOrder {
		if seen[edgeKey{src: key.dst, dst: key.src}] {
			continue
		}
		seen[key] = true
		result = append(result, g.edges[key])
	}
	return result
}

// Snapshot returns a deep copy of switches and links.
func (g *Graph) Snapshot() Snapshot {
	switches := make([]Switch, 0, len(g.order))
	for _, id := range g.order {
		sw := g.switches[id]
		switches = append(switches, Switch{ID: sw.ID, Ports: slices.Clone(sw.Ports)})
	}
	return Snapshot{Switches: switches, Links: g.Links()}
}
