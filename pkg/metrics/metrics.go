package metrics

import (
	"runtime"
	"time"
)

// Admission outcomes
const (
	StatusAdmitted = "admitted"
	StatusRejected = "rejected"
)

// Flow removal reasons
const (
	ReasonLinkFailure = "link_failure"
	ReasonWithdrawn   = "withdrawn"
)

func linkLabel(src, dst string) string {
	return src + "-" + dst
}

// SetTopologySize records switch and link counts
func (r *Registry) SetTopologySize(switches, links int) {
	r.SwitchesTotal.Set(float64(switches))
	r.LinksTotal.Set(float64(links))
}

// RecordTopologyChange counts a topology mutation
func (r *Registry) RecordTopologyChange(change string) {
	r.TopologyChangesTotal.WithLabelValues(change).Inc()
}

// SetLinkStat publishes a link's accounting
func (r *Registry) SetLinkStat(src, dst string, capacity, utilization, ratio float64) {
	label := linkLabel(src, dst)
	r.LinkCapacity.WithLabelValues(label).Set(capacity)
	r.LinkUtilization.WithLabelValues(label).Set(utilization)
	r.LinkUtilizationRatio.WithLabelValues(label).Set(ratio)
}

// DeleteLinkStat drops the series of a removed link
func (r *Registry) DeleteLinkStat(src, dst string) {
	label := linkLabel(src, dst)
	r.LinkCapacity.DeleteLabelValues(label)
	r.LinkUtilization.DeleteLabelValues(label)
	r.LinkUtilizationRatio.DeleteLabelValues(label)
}

// RecordFlowAdmission counts an admission attempt
func (r *Registry) RecordFlowAdmission(status string) {
	r.FlowAdmissionsTotal.WithLabelValues(status).Inc()
}

// RecordReconfiguration counts the outcome of a link removal
func (r *Registry) RecordReconfiguration(rerouted, removed int) {
	r.FlowReroutesTotal.Add(float64(rerouted))
	r.FlowsRemovedTotal.WithLabelValues(ReasonLinkFailure).Add(float64(removed))
}

// RecordFlowWithdrawn counts an explicit flow removal
func (r *Registry) RecordFlowWithdrawn() {
	r.FlowsRemovedTotal.WithLabelValues(ReasonWithdrawn).Inc()
}

// SetFlowState records active flow and flow table sizes
func (r *Registry) SetFlowState(active, tableEntries int) {
	r.FlowsActive.Set(float64(active))
	r.FlowTableEntries.Set(float64(tableEntries))
}

// RecordPathComputation records one routing call
func (r *Registry) RecordPathComputation(algorithm, status string, duration time.Duration) {
	r.PathComputationsTotal.WithLabelValues(algorithm, status).Inc()
	r.PathComputationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordEvent counts a published event
func (r *Registry) RecordEvent(topic string, dropped int) {
	r.EventsPublishedTotal.WithLabelValues(topic).Inc()
	if dropped > 0 {
		r.EventsDroppedTotal.WithLabelValues(topic).Add(float64(dropped))
	}
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes uptime and goroutine gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
}
