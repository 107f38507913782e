package visualization

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// NewLayout returns the named layout: "circular", "hierarchical" or
// "force". An empty name selects circular.
func NewLayout(name string, config LayoutConfig) (Layout, error) {
	if config.Width == 0 {
		config.Width = 800
	}
	if config.Height == 0 {
		config.Height = 600
	}
	switch name {
	case "", "circular":
		return NewCircularLayout(&config), nil
	case "hierarchical":
		return NewHierarchicalLayout(&config), nil
	case "force":
		return NewForceDirectedLayout(&config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}

// undirectedAdjacency lists neighbors per switch in link order
func undirectedAdjacency(s topology.Snapshot) map[string][]string {
	adjacency := make(map[string][]string, len(s.Switches))
	for _, l := range s.Links {
		adjacency[l.Src] = append(adjacency[l.Src], l.Dst)
		adjacency[l.Dst] = append(adjacency[l.Dst], l.Src)
	}
	return adjacency
}

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Position, width, height, padding float64) map[string]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[string]Position, len(positions))
	for id, pos := range positions {
		normalized[id] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}
	return normalized
}
