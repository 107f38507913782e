package topology

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestGraphInvariants uses property-based testing to verify link symmetry
func TestGraphInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("links are symmetric with identical bandwidth", prop.ForAll(
		func(src, dst string, bw float64) bool {
			g := NewGraph()
			if err := g.AddEdge(src, dst, bw); err != nil {
				return false
			}
			forward, okF := g.Edge(src, dst)
			reverse, okR := g.Edge(dst, src)
			return okF && okR && forward.Bandwidth == reverse.Bandwidth && forward.Weight == reverse.Weight
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Float64Range(0.001, 1e6),
	))

	properties.Property("remove after remove reports false", prop.ForAll(
		func(src, dst string, bw float64) bool {
			g := NewGraph()
			g.AddEdge(src, dst, bw)
			first := g.RemoveEdge(src, dst)
			second := g.RemoveEdge(src, dst)
			return first && !second && !g.HasEdge(src, dst) && !g.HasEdge(dst, src)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Float64Range(0.001, 1e6),
	))

	properties.Property("non-positive bandwidth never creates a link", prop.ForAll(
		func(src, dst string, bw float64) bool {
			g := NewGraph()
			return g.AddEdge(src, dst, bw) != nil && !g.HasEdge(src, dst) && g.NodeCount() == 0
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Float64Range(-1e6, 0),
	))

	properties.TestingRun(t)
}
