package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SaleMetrics содержит метрики операций продажи и погашения.
type SaleMetrics struct {
	// Счётчики операций
	salesRegistered prometheus.Counter
	salesRejected   *prometheus.CounterVec
	settlements     prometheus.Counter

	// Гистограмма времени регистрации продажи
	saleDuration prometheus.Histogram

	// Advisory-события и outbox
	lowStockEvents prometheus.Counter
	outboxEvents   prometheus.Counter

	// Gauge выручки за время жизни процесса (в минимальных единицах)
	revenueMinor prometheus.Counter
}

// NewSaleMetrics создаёт новый экземпляр метрик продаж.
func NewSaleMetrics() *SaleMetrics {
	return newSaleMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newSaleMetricsWithRegisterer(registerer prometheus.Registerer) *SaleMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SaleMetrics{
		salesRegistered: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_sales_registered_total",
			Help: "Total number of sales appended to the ledger",
		}),
		salesRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pos_sales_rejected_total",
			Help: "Total number of rejected sale attempts grouped by reason",
		}, []string{"reason"}),
		settlements: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_settlements_total",
			Help: "Total number of customer account settlements",
		}),
		saleDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pos_sale_duration_seconds",
			Help:    "Duration of sale registration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		lowStockEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_low_stock_events_total",
			Help: "Total number of low stock advisories emitted",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_outbox_events_total",
			Help: "Total number of events enqueued to the transactional outbox",
		}),
		revenueMinor: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_revenue_minor_total",
			Help: "Accumulated sale totals in minor currency units",
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

// RecordSaleRegistered увеличивает счётчик продаж и выручку.
func (m *SaleMetrics) RecordSaleRegistered(totalMinor int64) {
	m.salesRegistered.Inc()
	if totalMinor > 0 {
		m.revenueMinor.Add(float64(totalMinor))
	}
}

// RecordSaleRejected увеличивает счётчик отказов с указанием причины.
func (m *SaleMetrics) RecordSaleRejected(reason string) {
	m.salesRejected.WithLabelValues(reason).Inc()
}

// RecordSettlement увеличивает счётчик погашений.
func (m *SaleMetrics) RecordSettlement() {
	m.settlements.Inc()
}

// RecordSaleDuration записывает время регистрации продажи.
func (m *SaleMetrics) RecordSaleDuration(duration time.Duration) {
	m.saleDuration.Observe(duration.Seconds())
}

// RecordLowStock увеличивает счётчик advisory-событий низкого остатка.
func (m *SaleMetrics) RecordLowStock() {
	m.lowStockEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *SaleMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
