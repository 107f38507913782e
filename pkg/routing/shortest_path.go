package routing

import (
	"container/heap"
	"math"
)

// Graph is the view of a topology needed to compute routes.
// *topology.Graph satisfies it.
type Graph interface {
	HasNode(id string) bool
	NodeCount() int
	Neighbors(id string) []string
	Weight(src, dst string) (float64, bool)
}

// Path is a route with its total weight.
type Path struct {
	Nodes  []string `json:"nodes"`
	Weight float64  `json:"weight"`
}

// Hops returns the number of links on the path.
func (p Path) Hops() int {
	if len(p.Nodes) == 0 {
		return 0
	}
	return len(p.Nodes) - 1
}

// ShortestPath finds the minimum-weight path from src to dst using Dijkstra's
// algorithm. Edge weight is the inverse of link bandwidth, so wider links
// are preferred. Ties are broken by frontier insertion order and the search
// stops as soon as dst is settled.
func ShortestPath(g Graph, src, dst string) ([]string, error) {
	if !g.HasNode(src) {
		return nil, routeError("shortest_path", src, dst, ErrUnknownNode)
	}
	if !g.HasNode(dst) {
		return nil, routeError("shortest_path", src, dst, ErrUnknownNode)
	}
	if src == dst {
		return []string{src}, nil
	}

	distances := map[string]float64{src: 0}
	parent := make(map[string]string)
	settled := make(map[string]bool)

	pq := &frontier{}
	heap.Push(pq, &frontierItem{node: src, distance: 0, seq: 0})
	seq := 1

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*frontierItem)
		if settled[current.node] {
			continue
		}
		settled[current.node] = true

		if current.node == dst {
			return reconstructPath(parent, src, dst), nil
		}

		for _, neighbor := range g.Neighbors(current.node) {
			if settled[neighbor] {
				continue
			}
			w, ok := g.Weight(current.node, neighbor)
			if !ok {
				continue
			}
			newDist := current.distance + w
			if oldDist, seen := distances[neighbor]; !seen || newDist < oldDist {
				distances[neighbor] = newDist
				parent[neighbor] = current.node
				heap.Push(pq, &frontierItem{node: neighbor, distance: newDist, seq: seq})
				seq++
			}
		}
	}

	return nil, routeError("shortest_path", src, dst, ErrNoPath)
}

// PathWeight sums edge weights along a contiguous path.
func PathWeight(g Graph, nodes []string) (float64, error) {
	if len(nodes) == 0 {
		return 0, routeError("path_weight", "", "", ErrInvalidPath)
	}
	total := 0.0
	for i := 0; i+1 < len(nodes); i++ {
		w, ok := g.Weight(nodes[i], nodes[i+1])
		if !ok {
			return math.Inf(1), routeError("path_weight", nodes[i], nodes[i+1], ErrInvalidPath)
		}
		total += w
	}
	return total, nil
}

func reconstructPath(parent map[string]string, src, dst string) []string {
	path := []string{dst}
	for node := dst; node != src; {
		node = parent[node]
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// frontierItem is a tentative distance to a node. seq records push order
// and breaks distance ties.
type frontierItem struct {
	node     string
	distance float64
	seq      int
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].distance != f[j].distance {
		return f[i].distance < f[j].distance
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}
