package flows

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// State is the lifecycle state of a flow.
type State int

const (
	StatePending State = iota
	StateActive
	StateRerouted
	StateRemoved
)

var stateNames = map[State]string{
	StatePending:  "pending",
	StateActive:   "active",
	StateRerouted: "rerouted",
	StateRemoved:  "removed",
}

// String returns the state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown flow state %q", text)
}

// canTransition reports whether the lifecycle allows moving from s to next.
// Removed is terminal; rerouted may repeat.
func (s State) canTransition(next State) bool {
	switch s {
	case StatePending:
		return next == StateActive || next == StateRemoved
	case StateActive, StateRerouted:
		return next == StateRerouted || next == StateRemoved
	}
	return false
}

// Flow is an admitted demand bound to a path.
type Flow struct {
	ID        string   `json:"id"`
	Src       string   `json:"src"`
	Dst       string   `json:"dst"`
	Path      []string `json:"path"`
	Bandwidth float64  `json:"bandwidth"`
	Priority  float64  `json:"priority"`
	State     State    `json:"state"`
	Reroutes  int      `json:"reroutes"`
}

// Clone returns a copy that does not share the path slice.
func (f *Flow) Clone() Flow {
	c := *f
	c.Path = slices.Clone(f.Path)
	return c
}

// Traverses reports whether the flow's path crosses the link between a and
// b in either direction.
func (f *Flow) Traverses(a, b string) bool {
	for i := 0; i+1 < len(f.Path); i++ {
		if (f.Path[i] == a && f.Path[i+1] == b) || (f.Path[i] == b && f.Path[i+1] == a) {
			return true
		}
	}
	return false
}

// UsesLink reports whether the flow's path hops from src directly to dst.
func (f *Flow) UsesLink(src, dst string) bool {
	for i := 0; i+1 < len(f.Path); i++ {
		if f.Path[i] == src && f.Path[i+1] == dst {
			return true
		}
	}
	return false
}

func (f *Flow) transition(next State) error {
	if !f.State.canTransition(next) {
		return NewError("transition").Flow(f.ID).Context(f.State.String() + "->" + next.String()).Cause(ErrInvalidTransition).Err()
	}
	f.State = next
	return nil
}

// Match selects traffic by source and destination switch.
type Match struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// Action forwards matched traffic to the next hop.
type Action struct {
	Forward string `json:"forward"`
}

// Entry is a forwarding rule derived from a flow's path.
type Entry struct {
	FlowID   string  `json:"flow_id"`
	Switch   string  `json:"switch"`
	Match    Match   `json:"match"`
	Action   Action  `json:"action"`
	Priority float64 `json:"priority"`
}

// String formats the entry as a one-line descriptor.
func (e Entry) String() string {
	return fmt.Sprintf("Switch %s: %s→%s via %s (priority: %g)",
		e.Switch, e.Match.Src, e.Match.Dst, e.Action.Forward, e.Priority)
}

// Reconfiguration summarizes how flows reacted to a link removal.
type Reconfiguration struct {
	Src      string   `json:"src"`
	Dst      string   `json:"dst"`
	Rerouted []string `json:"rerouted"`
	Removed  []string `json:"removed"`
}

// Affected returns the number of flows that crossed the removed link.
func (r Reconfiguration) Affected() int {
	return len(r.Rerouted) + len(r.Removed)
}
