package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// ForceDirectedLayout implements Fruchterman-Reingold style layout.
// Starting positions come from the configured seed, so a given snapshot
// always lays out the same way.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(s topology.Snapshot) (map[string]Position, error) {
	ids := s.NodeIDs()
	if len(ids) == 0 {
		return make(map[string]Position), nil
	}
	if len(ids) == 1 {
		return map[string]Position{
			ids[0]: {X: fdl.config.Width / 2, Y: fdl.config.Height / 2},
		}, nil
	}

	rng := rand.New(rand.NewSource(fdl.config.Seed))
	positions := make(map[string]Position, len(ids))
	for _, id := range ids {
		positions[id] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	adjacency := undirectedAdjacency(s)

	// Optimal distance
	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(ids)))
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[string]Position, len(ids))

		// Repulsion between all pairs
		for i, a := range ids {
			for _, b := range ids[i+1:] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx, fy := (dx/dist)*force, (dy/dist)*force
				forces[a] = Position{X: forces[a].X + fx, Y: forces[a].Y + fy}
				forces[b] = Position{X: forces[b].X - fx, Y: forces[b].Y - fy}
			}
		}

		// Attraction along links
		for _, a := range ids {
			for _, b := range adjacency[a] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[a] = Position{
					X: forces[a].X - (dx/dist)*force,
					Y: forces[a].Y - (dy/dist)*force,
				}
			}
		}

		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for _, id := range ids {
			fx, fy := forces[id].X, forces[id].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[id] = Position{
					X: positions[id].X + (fx/force)*step,
					Y: positions[id].Y + (fy/force)*step,
				}
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}
