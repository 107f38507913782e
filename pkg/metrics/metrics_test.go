package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	if r.SwitchesTotal == nil || r.FlowsActive == nil || r.PathComputationDuration == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Fatal("Prometheus registry not initialized")
	}

	// Two registries must not collide on registration.
	NewRegistry()
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestTopologyMetrics(t *testing.T) {
	r := NewRegistry()

	r.SetTopologySize(3, 2)
	r.RecordTopologyChange("link_added")
	r.RecordTopologyChange("link_added")

	if v := gaugeValue(t, r.SwitchesTotal); v != 3 {
		t.Errorf("Expected 3 switches, got %g", v)
	}
	if v := gaugeValue(t, r.LinksTotal); v != 2 {
		t.Errorf("Expected 2 links, got %g", v)
	}
	if v := counterValue(t, r.TopologyChangesTotal.WithLabelValues("link_added")); v != 2 {
		t.Errorf("Expected 2 link_added changes, got %g", v)
	}
}

func TestLinkStatMetrics(t *testing.T) {
	r := NewRegistry()

	r.SetLinkStat("A", "B", 10, 2, 0.2)
	if v := gaugeValue(t, r.LinkUtilizationRatio.WithLabelValues("A-B")); v != 0.2 {
		t.Errorf("Expected ratio 0.2, got %g", v)
	}

	r.DeleteLinkStat("A", "B")
	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "sdn_link_utilization_ratio" && len(mf.GetMetric()) != 0 {
			t.Errorf("Expected link series removed, got %d", len(mf.GetMetric()))
		}
	}
}

func TestFlowMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordFlowAdmission(StatusAdmitted)
	r.RecordFlowAdmission(StatusRejected)
	r.RecordReconfiguration(2, 1)
	r.RecordFlowWithdrawn()
	r.SetFlowState(4, 9)

	if v := counterValue(t, r.FlowReroutesTotal); v != 2 {
		t.Errorf("Expected 2 reroutes, got %g", v)
	}
	if v := counterValue(t, r.FlowsRemovedTotal.WithLabelValues(ReasonLinkFailure)); v != 1 {
		t.Errorf("Expected 1 link failure removal, got %g", v)
	}
	if v := counterValue(t, r.FlowsRemovedTotal.WithLabelValues(ReasonWithdrawn)); v != 1 {
		t.Errorf("Expected 1 withdrawal, got %g", v)
	}
	if v := gaugeValue(t, r.FlowTableEntries); v != 9 {
		t.Errorf("Expected 9 entries, got %g", v)
	}
}

func TestRecordPathComputation(t *testing.T) {
	r := NewRegistry()

	r.RecordPathComputation("dijkstra", "ok", time.Millisecond)
	r.RecordPathComputation("dijkstra", "no_path", time.Millisecond)

	if v := counterValue(t, r.PathComputationsTotal.WithLabelValues("dijkstra", "ok")); v != 1 {
		t.Errorf("Expected 1 ok computation, got %g", v)
	}

	var m dto.Metric
	observer, _ := r.PathComputationDuration.GetMetricWithLabelValues("dijkstra")
	observer.(prometheus.Metric).Write(&m)
	if m.GetHistogram().GetSampleCount() != 2 {
		t.Errorf("Expected 2 samples, got %d", m.GetHistogram().GetSampleCount())
	}
}

func TestEventAndHTTPMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordEvent("flow.rerouted", 0)
	r.RecordEvent("flow.rerouted", 3)
	r.RecordHTTPRequest("GET", "/switches", "200", 5*time.Millisecond)
	r.UpdateSystemMetrics(time.Now().Add(-time.Minute))

	if v := counterValue(t, r.EventsDroppedTotal.WithLabelValues("flow.rerouted")); v != 3 {
		t.Errorf("Expected 3 dropped, got %g", v)
	}
	if v := counterValue(t, r.HTTPRequestsTotal.WithLabelValues("GET", "/switches", "200")); v != 1 {
		t.Errorf("Expected 1 request, got %g", v)
	}
	if v := gaugeValue(t, r.UptimeSeconds); v < 60 {
		t.Errorf("Expected uptime >= 60s, got %g", v)
	}
}
