package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the controller
type Registry struct {
	// Topology Metrics
	SwitchesTotal        prometheus.Gauge
	LinksTotal           prometheus.Gauge
	TopologyChangesTotal *prometheus.CounterVec
	LinkUtilization      *prometheus.GaugeVec
	LinkUtilizationRatio *prometheus.GaugeVec
	LinkCapacity         *prometheus.GaugeVec

	// Flow Metrics
	FlowsActive         prometheus.Gauge
	FlowAdmissionsTotal *prometheus.CounterVec
	FlowReroutesTotal   prometheus.Counter
	FlowsRemovedTotal   *prometheus.CounterVec
	FlowTableEntries    prometheus.Gauge

	// Routing Metrics
	PathComputationsTotal   *prometheus.CounterVec
	PathComputationDuration *prometheus.HistogramVec

	// Event Metrics
	EventsPublishedTotal *prometheus.CounterVec
	EventsDroppedTotal   *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	AuthFailuresTotal    prometheus.Counter

	// System Metrics
	UptimeSeconds prometheus.Gauge
	GoRoutines    prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric registered on a private
// Prometheus registry, so tests can create as many as they like.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initTopologyMetrics()
	r.initFlowMetrics()
	r.initRoutingMetrics()
	r.initEventMetrics()
	r.initHTTPMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
