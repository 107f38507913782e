package ledger

import (
	"golang.org/x/exp/slices"
)

// Ledger records per-link capacity, cumulative utilization and the flows
// contributing to it. It is kept in lockstep with the topology by its owner;
// nothing here subscribes to graph changes.
//
// Each link has exactly one entry, keyed by the orientation passed to
// Register. Usage reported against the reverse orientation resolves to the
// same entry.
type Ledger struct {
	records map[Key]*record
	order   []Key
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{records: make(map[Key]*record)}
}

func (l *Ledger) resolve(src, dst string) (Key, *record, bool) {
	key := Key{Src: src, Dst: dst}
	if rec, ok := l.records[key]; ok {
		return key, rec, true
	}
	if rec, ok := l.records[key.reversed()]; ok {
		return key.reversed(), rec, true
	}
	return Key{}, nil, false
}

// Register creates the entry for a link. Registering an existing link only
// replaces its capacity; flows still crossing it keep their usage.
func (l *Ledger) Register(src, dst string, capacity float64) {
	if _, rec, ok := l.resolve(src, dst); ok {
		rec.capacity = capacity
		return
	}
	key := Key{Src: src, Dst: dst}
	l.records[key] = &record{capacity: capacity, flows: make(map[string]struct{})}
	l.order = append(l.order, key)
}

// Unregister destroys a link's entry along with its membership data.
func (l *Ledger) Unregister(src, dst string) bool {
	key, _, ok := l.resolve(src, dst)
	if !ok {
		return false
	}
	delete(l.records, key)
	l.order = slices.DeleteFunc(l.order, func(k Key) bool { return k == key })
	return true
}

// Has reports whether a link is registered in either orientation.
func (l *Ledger) Has(src, dst string) bool {
	_, _, ok := l.resolve(src, dst)
	return ok
}

// AddUsage charges bandwidth to a link on behalf of a flow. Unregistered
// links are ignored and reported with false.
func (l *Ledger) AddUsage(src, dst, flowID string, bandwidth float64) bool {
	_, rec, ok := l.resolve(src, dst)
	if !ok {
		return false
	}
	rec.utilization += bandwidth
	rec.flows[flowID] = struct{}{}
	return true
}

// RemoveUsage releases bandwidth from a link. Utilization never drops below
// zero; removing more than was added clamps silently.
func (l *Ledger) RemoveUsage(src, dst, flowID string, bandwidth float64) bool {
	_, rec, ok := l.resolve(src, dst)
	if !ok {
		return false
	}
	rec.utilization -= bandwidth
	if rec.utilization < 0 {
		rec.utilization = 0
	}
	delete(rec.flows, flowID)
	return true
}

// AddPathUsage charges every link along path.
func (l *Ledger) AddPathUsage(path []string, flowID string, bandwidth float64) {
	for i := 0; i+1 < len(path); i++ {
		l.AddUsage(path[i], path[i+1], flowID, bandwidth)
	}
}

// RemovePathUsage releases every link along path.
func (l *Ledger) RemovePathUsage(path []string, flowID string, bandwidth float64) {
	for i := 0; i+1 < len(path); i++ {
		l.RemoveUsage(path[i], path[i+1], flowID, bandwidth)
	}
}

// Stat returns the projection for a single link.
func (l *Ledger) Stat(src, dst string) (LinkStat, bool) {
	key, rec, ok := l.resolve(src, dst)
	if !ok {
		return LinkStat{}, false
	}
	return project(key, rec), true
}

// Stats returns projections for every link in registration order.
func (l *Ledger) Stats() []LinkStat {
	result := make([]LinkStat, 0, len(l.order))
	for _, key := range l.order {
		result = append(result, project(key, l.records[key]))
	}
	return result
}

// Len returns the number of registered links.
func (l *Ledger) Len() int {
	return len(l.order)
}

func project(key Key, rec *record) LinkStat {
	ids := make([]string, 0, len(rec.flows))
	for id := range rec.flows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	ratio := 0.0
	if rec.capacity > 0 {
		ratio = rec.utilization / rec.capacity
	}
	return LinkStat{
		Src:         key.Src,
		Dst:         key.Dst,
		Capacity:    rec.capacity,
		Utilization: rec.utilization,
		Ratio:       ratio,
		FlowIDs:     ids,
	}
}
