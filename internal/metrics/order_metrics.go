package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики оформления заказов и списания остатков.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated prometheus.Counter
	orderLines    prometheus.Counter
	ordersFailed  *prometheus.CounterVec
	compensations prometheus.Counter

	// Гистограмма времени списания остатков
	stockUpdateDuration prometheus.Histogram
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders persisted successfully",
		}),
		orderLines: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_lines_created_total",
			Help: "Total number of order lines persisted",
		}),
		ordersFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "Total number of rejected order creations grouped by reason",
		}, []string{"reason"}),
		compensations: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_stock_compensations_total",
			Help: "Total number of compensating restocks after a failed order insert",
		}),
		stockUpdateDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_stock_update_duration_seconds",
			Help:    "Duration of atomic stock batch updates in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчики успешных заказов и их позиций.
func (m *OrderMetrics) RecordOrderCreated(lineCount int) {
	m.ordersCreated.Inc()
	m.orderLines.Add(float64(lineCount))
}

// RecordOrderFailed увеличивает счётчик отказов с указанием причины.
func (m *OrderMetrics) RecordOrderFailed(reason string) {
	m.ordersFailed.WithLabelValues(reason).Inc()
}

// RecordCompensation увеличивает счётчик компенсирующих возвратов остатков.
func (m *OrderMetrics) RecordCompensation() {
	m.compensations.Inc()
}

// RecordStockUpdateDuration записывает время атомарного списания остатков.
func (m *OrderMetrics) RecordStockUpdateDuration(duration time.Duration) {
	m.stockUpdateDuration.Observe(duration.Seconds())
}
