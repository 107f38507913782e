package visualization

import (
	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// HierarchicalLayout arranges switches in breadth-first tiers. Each
// connected component is rooted at its first registered switch.
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges switches hierarchically
func (hl *HierarchicalLayout) ComputeLayout(s topology.Snapshot) (map[string]Position, error) {
	ids := s.NodeIDs()
	positions := make(map[string]Position, len(ids))
	if len(ids) == 0 {
		return positions, nil
	}

	adjacency := undirectedAdjacency(s)
	levels := make([][]string, 0)
	visited := make(map[string]bool, len(ids))

	for _, root := range ids {
		if visited[root] {
			continue
		}
		visited[root] = true
		current := []string{root}
		for depth := 0; len(current) > 0; depth++ {
			if depth == len(levels) {
				levels = append(levels, nil)
			}
			levels[depth] = append(levels[depth], current...)

			var next []string
			for _, id := range current {
				for _, n := range adjacency[id] {
					if !visited[n] {
						visited[n] = true
						next = append(next, n)
					}
				}
			}
			current = next
		}
	}

	levelHeight := (hl.config.Height - 2*hl.config.Padding) / float64(len(levels))
	levelWidth := hl.config.Width - 2*hl.config.Padding
	for levelIdx, level := range levels {
		y := hl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)
		for i, id := range level {
			positions[id] = Position{X: hl.config.Padding + spacing*float64(i+1), Y: y}
		}
	}
	return positions, nil
}
