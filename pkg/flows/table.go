package flows

import (
	"golang.org/x/exp/slices"
)

// Table is the append-only list of forwarding rules derived from flow paths.
// Entries for a path that was replaced by rerouting are kept; they are only
// removed when a switch is cleared explicitly.
type Table struct {
	entries []Entry
}

// NewTable creates an empty flow table.
func NewTable() *Table {
	return &Table{}
}

// install appends one entry per hop of the flow's path.
func (t *Table) install(f *Flow) []Entry {
	added := make([]Entry, 0, len(f.Path))
	for i := 0; i+1 < len(f.Path); i++ {
		added = append(added, Entry{
			FlowID:   f.ID,
			Switch:   f.Path[i],
			Match:    Match{Src: f.Src, Dst: f.Dst},
			Action:   Action{Forward: f.Path[i+1]},
			Priority: f.Priority,
		})
	}
	t.entries = append(t.entries, added...)
	return added
}

// Entries returns every entry in installation order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// EntriesForSwitch returns the entries installed on one switch.
func (t *Table) EntriesForSwitch(sw string) []Entry {
	var result []Entry
	for _, e := range t.entries {
		if e.Switch == sw {
			result = append(result, e)
		}
	}
	return result
}

// RemoveEntriesForSwitch deletes all entries on a switch and returns how
// many were removed.
func (t *Table) RemoveEntriesForSwitch(sw string) int {
	before := len(t.entries)
	t.entries = slices.DeleteFunc(t.entries, func(e Entry) bool { return e.Switch == sw })
	return before - len(t.entries)
}

// Descriptors formats every entry as a human-readable line.
func (t *Table) Descriptors() []string {
	lines := make([]string, len(t.entries))
	for i, e := range t.entries {
		lines[i] = e.String()
	}
	return lines
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
