package topology

// Switch is a forwarding device registered in the topology.
type Switch struct {
	ID    string `json:"id"`
	Ports []int  `json:"ports"`
}

// Edge is one direction of a link. Every link is stored as two edges with
// identical bandwidth and weight.
type Edge struct {
	Src       string  `json:"src"`
	Dst       string  `json:"dst"`
	Bandwidth float64 `json:"bandwidth"`
	Weight    float64 `json:"weight"`
}

// Snapshot is a structural copy of the topology handed to renderers.
type Snapshot struct {
	Switches []Switch `json:"switches"`
	Links    []Edge   `json:"links"`
}

// NodeIDs returns the switch IDs of the snapshot in order.
func (s Snapshot) NodeIDs() []string {
	ids := make([]string, len(s.Switches))
	for i, sw := range s.Switches {
		ids[i] = sw.ID
	}
	return ids
}

type edgeKey struct {
	src string
	dst string
}
