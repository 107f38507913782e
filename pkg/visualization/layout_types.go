package visualization

import (
	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for layouts with random starting positions
}

// Layout places the switches of a topology snapshot on a canvas
type Layout interface {
	ComputeLayout(s topology.Snapshot) (map[string]Position, error)
}

// LinkView is a link annotated with its current load
type LinkView struct {
	Src         string  `json:"src"`
	Dst         string  `json:"dst"`
	Bandwidth   float64 `json:"bandwidth"`
	Utilization float64 `json:"utilization"`
	Percent     float64 `json:"percent"`
}

// Visualization is a topology ready for rendering
type Visualization struct {
	Switches  []topology.Switch   `json:"switches"`
	Links     []LinkView          `json:"links"`
	Positions map[string]Position `json:"positions"`
}

// Build lays out a snapshot and annotates each link with ledger usage.
func Build(s topology.Snapshot, stats []ledger.LinkStat, layout Layout) (*Visualization, error) {
	positions, err := layout.ComputeLayout(s)
	if err != nil {
		return nil, err
	}

	byLink := make(map[[2]string]ledger.LinkStat, len(stats))
	for _, st := range stats {
		byLink[[2]string{st.Src, st.Dst}] = st
		byLink[[2]string{st.Dst, st.Src}] = st
	}

	links := make([]LinkView, 0, len(s.Links))
	for _, l := range s.Links {
		view := LinkView{Src: l.Src, Dst: l.Dst, Bandwidth: l.Bandwidth}
		if st, ok := byLink[[2]string{l.Src, l.Dst}]; ok {
			view.Utilization = st.Utilization
			view.Percent = st.Percent()
		}
		links = append(links, view)
	}

	return &Visualization{Switches: s.Switches, Links: links, Positions: positions}, nil
}
