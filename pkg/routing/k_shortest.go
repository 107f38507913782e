package routing

import (
	"sort"

	"golang.org/x/exp/slices"
)

// Default enumeration bounds for KShortestPaths.
const (
	DefaultMaxPaths = 1000
	DefaultMaxNodes = 64
)

// Limits bounds the exhaustive simple-path enumeration behind KShortestPaths.
// Enumeration is exponential in the worst case, so both bounds always apply.
type Limits struct {
	// MaxPaths stops enumeration after this many simple paths were found.
	MaxPaths int
	// MaxNodes refuses graphs with more switches than this.
	MaxNodes int
}

// DefaultLimits returns the default enumeration bounds.
func DefaultLimits() Limits {
	return Limits{MaxPaths: DefaultMaxPaths, MaxNodes: DefaultMaxNodes}
}

func (l Limits) withDefaults() Limits {
	if l.MaxPaths <= 0 {
		l.MaxPaths = DefaultMaxPaths
	}
	if l.MaxNodes <= 0 {
		l.MaxNodes = DefaultMaxNodes
	}
	return l
}

// enumFrame is one level of the depth-first walk: the node it sits on, that
// node's neighbors, and the index of the next neighbor to try.
type enumFrame struct {
	node      string
	neighbors []string
	next      int
}

// KShortestPaths enumerates simple paths from src to dst depth first, sorts
// them by total weight and returns at most k of them. Paths of equal weight
// keep enumeration order.
//
// When the MaxPaths bound is hit the result is the best k among the paths
// enumerated so far, which may not be the global best k.
func KShortestPaths(g Graph, src, dst string, k int, limits Limits) ([]Path, error) {
	if !g.HasNode(src) || !g.HasNode(dst) {
		return nil, routeError("k_shortest_paths", src, dst, ErrUnknownNode)
	}
	if k <= 0 {
		return []Path{}, nil
	}
	if src == dst {
		return []Path{{Nodes: []string{src}, Weight: 0}}, nil
	}

	limits = limits.withDefaults()
	if g.NodeCount() > limits.MaxNodes {
		return nil, routeError("k_shortest_paths", src, dst, ErrEnumerationLimit)
	}

	found := enumerateSimplePaths(g, src, dst, limits.MaxPaths)
	if len(found) == 0 {
		return nil, routeError("k_shortest_paths", src, dst, ErrNoPath)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Weight < found[j].Weight
	})

	if len(found) > k {
		found = found[:k]
	}
	return found, nil
}

// enumerateSimplePaths walks the graph with an explicit stack so deep
// topologies cannot exhaust the goroutine stack.
func enumerateSimplePaths(g Graph, src, dst string, maxPaths int) []Path {
	var found []Path

	path := []string{src}
	weights := []float64{0}
	onPath := map[string]bool{src: true}
	stack := []enumFrame{{node: src, neighbors: g.Neighbors(src)}}

	for len(stack) > 0 && len(found) < maxPaths {
		top := &stack[len(stack)-1]

		if top.node == dst || top.next >= len(top.neighbors) {
			if top.node == dst {
				found = append(found, Path{
					Nodes:  slices.Clone(path),
					Weight: weights[len(weights)-1],
				})
			}
			delete(onPath, top.node)
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			weights = weights[:len(weights)-1]
			continue
		}

		current := top.node
		neighbor := top.neighbors[top.next]
		top.next++

		if onPath[neighbor] {
			continue
		}
		w, ok := g.Weight(current, neighbor)
		if !ok {
			continue
		}

		onPath[neighbor] = true
		path = append(path, neighbor)
		weights = append(weights, weights[len(weights)-1]+w)
		stack = append(stack, enumFrame{node: neighbor, neighbors: g.Neighbors(neighbor)})
	}

	return found
}
