package health

import (
	"fmt"
	"sync"
)

// Guarded runs check while holding lock, for sources that are not safe for
// concurrent use.
func Guarded(lock sync.Locker, check CheckFunc) CheckFunc {
	return func() Check {
		lock.Lock()
		defer lock.Unlock()
		return check()
	}
}

// TopologySymmetryCheck verifies every directed edge has a reverse twin
// with the same bandwidth.
func TopologySymmetryCheck(cp ControlPlane) CheckFunc {
	return func() Check {
		check := Check{Name: "topology_symmetry", Details: make(map[string]any)}

		edges := cp.Edges()
		type pair struct{ src, dst string }
		bandwidth := make(map[pair]float64, len(edges))
		for _, e := range edges {
			bandwidth[pair{e.Src, e.Dst}] = e.Bandwidth
		}

		var broken []string
		for _, e := range edges {
			if bw, ok := bandwidth[pair{e.Dst, e.Src}]; !ok || bw != e.Bandwidth {
				broken = append(broken, fmt.Sprintf("%s-%s", e.Src, e.Dst))
			}
		}

		check.Details["directed_edges"] = len(edges)
		if len(broken) > 0 {
			check.Status = StatusUnhealthy
			check.Message = "Asymmetric links"
			check.Details["asymmetric"] = broken
			return check
		}
		check.Status = StatusHealthy
		check.Message = "All links symmetric"
		return check
	}
}

// LedgerSyncCheck verifies the ledger holds exactly one entry per link.
func LedgerSyncCheck(cp ControlPlane) CheckFunc {
	return func() Check {
		check := Check{Name: "ledger_sync", Details: make(map[string]any)}

		edges := cp.Edges()
		present := make(map[string]bool, len(edges))
		links := make(map[string]bool, len(edges)/2)
		for _, e := range edges {
			present[e.Src+"\x00"+e.Dst] = true
			links[undirectedKey(e.Src, e.Dst)] = true
		}

		stats := cp.ShowLinkStats()
		var orphaned []string
		for _, s := range stats {
			if !present[s.Src+"\x00"+s.Dst] {
				orphaned = append(orphaned, s.Src+"-"+s.Dst)
			}
		}

		check.Details["links"] = len(links)
		check.Details["ledger_entries"] = len(stats)
		switch {
		case len(orphaned) > 0:
			check.Status = StatusUnhealthy
			check.Message = "Ledger entries without links"
			check.Details["orphaned"] = orphaned
		case len(stats) != len(links):
			check.Status = StatusUnhealthy
			check.Message = "Links without ledger entries"
		default:
			check.Status = StatusHealthy
			check.Message = "Ledger in sync"
		}
		return check
	}
}

// undirectedKey names a link independent of orientation. A self-loop has a
// single directed edge and still counts as one link.
func undirectedKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// FlowPathCheck verifies every active flow follows existing links.
// Links booked above capacity degrade the result.
func FlowPathCheck(cp ControlPlane) CheckFunc {
	return func() Check {
		check := Check{Name: "flow_paths", Details: make(map[string]any)}

		present := make(map[string]bool)
		for _, e := range cp.Edges() {
			present[e.Src+"\x00"+e.Dst] = true
		}

		active := cp.Flows()
		var invalid []string
		for _, f := range active {
			for i := 0; i+1 < len(f.Path); i++ {
				if !present[f.Path[i]+"\x00"+f.Path[i+1]] {
					invalid = append(invalid, f.ID)
					break
				}
			}
		}

		var oversubscribed []string
		for _, s := range cp.ShowLinkStats() {
			if s.Ratio > 1 {
				oversubscribed = append(oversubscribed, s.Src+"-"+s.Dst)
			}
		}

		check.Details["active_flows"] = len(active)
		switch {
		case len(invalid) > 0:
			check.Status = StatusUnhealthy
			check.Message = "Flows routed over missing links"
			check.Details["invalid"] = invalid
		case len(oversubscribed) > 0:
			check.Status = StatusDegraded
			check.Message = "Links over capacity"
			check.Details["oversubscribed"] = oversubscribed
		default:
			check.Status = StatusHealthy
			check.Message = "All flow paths valid"
		}
		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{Name: "memory", Details: make(map[string]any)}

		alloc, sys := getUsage()
		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		if sys > 0 && float64(alloc)/float64(sys)*100 > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}
