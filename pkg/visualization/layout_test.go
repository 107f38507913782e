package visualization

import (
	"math"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-sdn/pkg/ledger"
	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

func snapshot(t *testing.T, links ...[3]any) topology.Snapshot {
	t.Helper()
	g := topology.NewGraph()
	for _, l := range links {
		if err := g.AddEdge(l[0].(string), l[1].(string), l[2].(float64)); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	return g.Snapshot()
}

func chain(t *testing.T) topology.Snapshot {
	return snapshot(t,
		[3]any{"A", "B", 10.0},
		[3]any{"B", "C", 10.0},
		[3]any{"B", "D", 5.0},
	)
}

func inBounds(t *testing.T, positions map[string]Position, width, height float64) {
	t.Helper()
	for id, pos := range positions {
		if pos.X < 0 || pos.X > width || pos.Y < 0 || pos.Y > height {
			t.Errorf("switch %s at (%f, %f) out of bounds", id, pos.X, pos.Y)
		}
	}
}

// TestCircularLayout tests that switches sit on a common radius
func TestCircularLayout(t *testing.T) {
	positions, err := NewCircularLayout(&LayoutConfig{Width: 800, Height: 600}).ComputeLayout(chain(t))
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	if len(positions) != 4 {
		t.Fatalf("Expected 4 positions, got %d", len(positions))
	}

	var radius float64
	for id, pos := range positions {
		r := math.Hypot(pos.X-400, pos.Y-300)
		if radius == 0 {
			radius = r
		} else if math.Abs(r-radius) > 1e-6 {
			t.Errorf("switch %s radius %f, expected %f", id, r, radius)
		}
	}
	if math.Abs(radius-250) > 1e-6 {
		t.Errorf("Expected radius 250, got %f", radius)
	}
}

// TestHierarchicalLayout tests breadth-first tiers
func TestHierarchicalLayout(t *testing.T) {
	s := chain(t)
	s.Switches = append(s.Switches, topology.Switch{ID: "island"})

	positions, err := NewHierarchicalLayout(&LayoutConfig{Width: 800, Height: 600}).ComputeLayout(s)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	// A is the root, B the second tier, C and D share the third.
	if !(positions["A"].Y < positions["B"].Y && positions["B"].Y < positions["C"].Y) {
		t.Errorf("Expected A above B above C, got %v", positions)
	}
	if positions["C"].Y != positions["D"].Y {
		t.Errorf("Expected C and D on the same tier, got %v and %v", positions["C"], positions["D"])
	}
	// A disconnected switch roots its own component on the top tier.
	if positions["island"].Y != positions["A"].Y {
		t.Errorf("Expected island on the top tier, got %v", positions["island"])
	}
	inBounds(t, positions, 800, 600)
}

// TestForceDirectedLayout tests bounds and determinism
func TestForceDirectedLayout(t *testing.T) {
	config := LayoutConfig{Width: 800, Height: 600, Iterations: 50, Seed: 7}
	first, err := NewForceDirectedLayout(&config).ComputeLayout(chain(t))
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}
	second, _ := NewForceDirectedLayout(&config).ComputeLayout(chain(t))

	if len(first) != 4 {
		t.Fatalf("Expected 4 positions, got %d", len(first))
	}
	inBounds(t, first, 800, 600)
	for id := range first {
		if first[id] != second[id] {
			t.Errorf("switch %s moved between runs with the same seed", id)
		}
	}
}

// TestEmptyAndSingleSwitch tests degenerate topologies
func TestEmptyAndSingleSwitch(t *testing.T) {
	for _, name := range []string{"circular", "hierarchical", "force"} {
		layout, err := NewLayout(name, LayoutConfig{})
		if err != nil {
			t.Fatalf("NewLayout(%q) failed: %v", name, err)
		}
		positions, err := layout.ComputeLayout(topology.Snapshot{})
		if err != nil || len(positions) != 0 {
			t.Errorf("%s: expected empty layout, got %v, %v", name, positions, err)
		}

		single := topology.Snapshot{Switches: []topology.Switch{{ID: "solo"}}}
		positions, err = layout.ComputeLayout(single)
		if err != nil || len(positions) != 1 {
			t.Errorf("%s: expected one position, got %v, %v", name, positions, err)
		}
	}

	if _, err := NewLayout("spiral", LayoutConfig{}); err == nil {
		t.Error("Expected error for unknown layout")
	}
}

// TestNormalizePositions tests scaling into the padded canvas
func TestNormalizePositions(t *testing.T) {
	positions := map[string]Position{
		"a": {X: -100, Y: -100},
		"b": {X: 100, Y: 100},
	}
	normalized := normalizePositions(positions, 800, 600, 50)

	if normalized["a"] != (Position{X: 50, Y: 50}) {
		t.Errorf("Expected a at padding corner, got %v", normalized["a"])
	}
	if normalized["b"] != (Position{X: 750, Y: 550}) {
		t.Errorf("Expected b at far corner, got %v", normalized["b"])
	}
}

// TestBuild tests that links carry ledger usage in either orientation
func TestBuild(t *testing.T) {
	s := chain(t)
	stats := []ledger.LinkStat{
		{Src: "B", Dst: "A", Capacity: 10, Utilization: 5, Ratio: 0.5},
	}

	v, err := Build(s, stats, NewCircularLayout(&LayoutConfig{Width: 400, Height: 400}))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(v.Links) != 3 || len(v.Positions) != 4 {
		t.Fatalf("Unexpected visualization %+v", v)
	}
	if v.Links[0].Utilization != 5 || v.Links[0].Percent != 50 {
		t.Errorf("Expected A-B at 50%%, got %+v", v.Links[0])
	}
	if v.Links[1].Utilization != 0 {
		t.Errorf("Expected idle B-C, got %+v", v.Links[1])
	}

	dot := v.DOT()
	for _, want := range []string{"graph topology {", `"A" -- "B" [label="10 (50%)"]`, `"D" [pos=`} {
		if !strings.Contains(dot, want) {
			t.Errorf("Expected %q in DOT output:\n%s", want, dot)
		}
	}
}
