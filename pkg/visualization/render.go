package visualization

import (
	"fmt"
	"strings"
)

// DOT renders the visualization in Graphviz format. Switch positions are
// emitted as pinned coordinates and links are labelled with bandwidth and
// load.
func (v *Visualization) DOT() string {
	var b strings.Builder
	b.WriteString("graph topology {\n")
	for _, sw := range v.Switches {
		if pos, ok := v.Positions[sw.ID]; ok {
			fmt.Fprintf(&b, "  %q [pos=\"%.1f,%.1f!\"];\n", sw.ID, pos.X, pos.Y)
		} else {
			fmt.Fprintf(&b, "  %q;\n", sw.ID)
		}
	}
	for _, l := range v.Links {
		fmt.Fprintf(&b, "  %q -- %q [label=\"%g (%.0f%%)\"];\n", l.Src, l.Dst, l.Bandwidth, l.Percent)
	}
	b.WriteString("}\n")
	return b.String()
}
