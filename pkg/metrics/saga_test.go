package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSagaMetricsExportCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSagaMetrics(reg)

	m.ObserveStep("finalize", 150*time.Millisecond)
	m.IncStepFailure("cart_item")
	m.IncSaga("success")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	if fam := byName["saga_step_failures_total"]; fam == nil || fam.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("unexpected step failure counter: %v", fam)
	}
	if fam := byName["saga_runs_total"]; fam == nil || fam.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("unexpected saga counter: %v", fam)
	}
	if fam := byName["saga_step_duration_seconds"]; fam == nil || fam.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("unexpected histogram: %v", fam)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewSagaMetrics(nil)
	m.ObserveStep("finalize", time.Second)
	m.IncStepFailure("delivery_info")
	m.IncSaga("failure")

	h := NewHTTPMetrics(nil)
	h.Observe("GET", "/cart/{username}", 200, time.Millisecond)
}
