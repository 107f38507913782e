package visualization

import (
	"math"

	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// CircularLayout arranges switches on a circle in registration order
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges switches in a circle
func (cl *CircularLayout) ComputeLayout(s topology.Snapshot) (map[string]Position, error) {
	ids := s.NodeIDs()
	positions := make(map[string]Position, len(ids))
	if len(ids) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding
	angleStep := 2 * math.Pi / float64(len(ids))

	for i, id := range ids {
		angle := float64(i) * angleStep
		positions[id] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions, nil
}
