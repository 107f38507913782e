package ledger

// LinkStat is a read-only projection of one link's accounting.
type LinkStat struct {
	Src         string   `json:"src"`
	Dst         string   `json:"dst"`
	Capacity    float64  `json:"capacity"`
	Utilization float64  `json:"utilization"`
	Ratio       float64  `json:"ratio"`
	FlowIDs     []string `json:"flow_ids"`
}

// Percent returns utilization as a percentage of capacity.
func (s LinkStat) Percent() float64 {
	return s.Ratio * 100
}

// Key identifies a link by the orientation it was registered with.
type Key struct {
	Src string
	Dst string
}

func (k Key) reversed() Key {
	return Key{Src: k.Dst, Dst: k.Src}
}

type record struct {
	capacity    float64
	utilization float64
	flows       map[string]struct{}
}
