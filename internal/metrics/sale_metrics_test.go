package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewSaleMetricsWithRegisterer(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newSaleMetricsWithRegisterer(registry)

	m.RecordSaleRegistered(750)
	m.RecordSaleRejected("insufficient_stock")
	m.RecordSettlement()
	m.RecordSaleDuration(15 * time.Millisecond)
	m.RecordLowStock()
	m.RecordOutboxEvent()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestNewSaleMetricsTwiceReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Повторная инициализация не должна паниковать на already registered.
	first := newSaleMetricsWithRegisterer(registry)
	second := newSaleMetricsWithRegisterer(registry)

	if first == nil || second == nil {
		t.Fatal("expected both metric sets to be constructed")
	}
}
