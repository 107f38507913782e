package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTopologyMetrics() {
	r.SwitchesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sdn_switches_total",
			Help: "Number of switches in the topology",
		},
	)

	r.LinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sdn_links_total",
			Help: "Number of bidirectional links in the topology",
		},
	)

	r.TopologyChangesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdn_topology_changes_total",
			Help: "Topology mutations by kind",
		},
		[]string{"change"},
	)

	r.LinkUtilization = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sdn_link_utilization",
			Help: "Bandwidth currently charged to a link",
		},
		[]string{"link"},
	)

	r.LinkUtilizationRatio = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sdn_link_utilization_ratio",
			Help: "Charged bandwidth divided by link capacity",
		},
		[]string{"link"},
	)

	r.LinkCapacity = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sdn_link_capacity",
			Help: "Configured link bandwidth",
		},
		[]string{"link"},
	)
}
