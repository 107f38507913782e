package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFlowMetrics() {
	r.FlowsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sdn_flows_active",
			Help: "Number of flows currently installed",
		},
	)

	r.FlowAdmissionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdn_flow_admissions_total",
			Help: "Flow admission attempts by outcome",
		},
		[]string{"status"},
	)

	r.FlowReroutesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sdn_flow_reroutes_total",
			Help: "Flows moved to a new path after a link removal",
		},
	)

	r.FlowsRemovedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdn_flows_removed_total",
			Help: "Flows removed by reason",
		},
		[]string{"reason"},
	)

	r.FlowTableEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sdn_flow_table_entries",
			Help: "Number of forwarding entries in the flow table",
		},
	)
}

func (r *Registry) initRoutingMetrics() {
	r.PathComputationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdn_path_computations_total",
			Help: "Path computations by algorithm and outcome",
		},
		[]string{"algorithm", "status"},
	)

	r.PathComputationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdn_path_computation_duration_seconds",
			Help:    "Path computation latency in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"algorithm"},
	)
}

func (r *Registry) initEventMetrics() {
	r.EventsPublishedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdn_events_published_total",
			Help: "Control-plane events published by topic",
		},
		[]string{"topic"},
	)

	r.EventsDroppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdn_events_dropped_total",
			Help: "Events dropped because a subscriber buffer was full",
		},
		[]string{"topic"},
	)
}
