package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewOrderMetrics(t *testing.T) {
	metrics := NewOrderMetrics()

	if metrics == nil {
		t.Fatal("NewOrderMetrics should not return nil")
	}
	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if metrics.orderLines == nil {
		t.Error("orderLines counter should not be nil")
	}
	if metrics.ordersFailed == nil {
		t.Error("ordersFailed counter vec should not be nil")
	}
	if metrics.compensations == nil {
		t.Error("compensations counter should not be nil")
	}
	if metrics.stockUpdateDuration == nil {
		t.Error("stockUpdateDuration histogram should not be nil")
	}
}

func TestOrderMetrics_RecordOrderCreated(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newOrderMetricsWithRegisterer(registry)

	metrics.RecordOrderCreated(3)
	metrics.RecordOrderCreated(1)

	if got := counterValue(t, metrics.ordersCreated); got != 2 {
		t.Errorf("orders created = %v, want 2", got)
	}
	if got := counterValue(t, metrics.orderLines); got != 4 {
		t.Errorf("order lines = %v, want 4", got)
	}
}

func TestOrderMetrics_RecordOrderFailed(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newOrderMetricsWithRegisterer(registry)

	metrics.RecordOrderFailed("out_of_stock")
	metrics.RecordOrderFailed("out_of_stock")
	metrics.RecordOrderFailed("customer_not_found")

	if got := counterValue(t, metrics.ordersFailed.WithLabelValues("out_of_stock")); got != 2 {
		t.Errorf("out_of_stock failures = %v, want 2", got)
	}
	if got := counterValue(t, metrics.ordersFailed.WithLabelValues("customer_not_found")); got != 1 {
		t.Errorf("customer_not_found failures = %v, want 1", got)
	}
}

func TestOrderMetrics_RecordCompensation(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newOrderMetricsWithRegisterer(registry)

	metrics.RecordCompensation()

	if got := counterValue(t, metrics.compensations); got != 1 {
		t.Errorf("compensations = %v, want 1", got)
	}
}

func TestOrderMetrics_RecordStockUpdateDuration(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newOrderMetricsWithRegisterer(registry)

	metrics.RecordStockUpdateDuration(25 * time.Millisecond)

	var m dto.Metric
	if err := metrics.stockUpdateDuration.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if m.Histogram.GetSampleCount() != 1 {
		t.Errorf("sample count = %d, want 1", m.Histogram.GetSampleCount())
	}
}

func TestOrderMetrics_DoubleRegistrationReturnsExisting(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.RecordOrderCreated(1)
	second.RecordOrderCreated(1)

	if got := counterValue(t, first.ordersCreated); got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}

func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.Counter.GetValue()
}
