package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOrderMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.OrderCreated()
	m.OrderCreated()
	m.OrderDeleted()
	m.IdempotencyHit()
	m.IdempotencyStale()
	m.StatusChanged("PAID")
	m.SetIndexSize(3)

	if got := testutil.ToFloat64(m.ordersCreated); got != 2 {
		t.Fatalf("expected 2 created, got %v", got)
	}
	if got := testutil.ToFloat64(m.ordersDeleted); got != 1 {
		t.Fatalf("expected 1 deleted, got %v", got)
	}
	if got := testutil.ToFloat64(m.idempotencyHits); got != 1 {
		t.Fatalf("expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.idempotencyStale); got != 1 {
		t.Fatalf("expected 1 stale, got %v", got)
	}
	if got := testutil.ToFloat64(m.statusChanges.WithLabelValues("PAID")); got != 1 {
		t.Fatalf("expected 1 status change, got %v", got)
	}
	if got := testutil.ToFloat64(m.indexSize); got != 3 {
		t.Fatalf("expected index size 3, got %v", got)
	}
}

func TestOrderMetrics_DoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	first.OrderCreated()
	second.OrderCreated()

	if got := testutil.ToFloat64(first.ordersCreated); got != 2 {
		t.Fatalf("expected shared collector with value 2, got %v", got)
	}
}

func TestOrderMetrics_NilSafe(t *testing.T) {
	var m *OrderMetrics

	// Методы на nil не должны паниковать: сервис может работать без метрик.
	m.OrderCreated()
	m.OrderDeleted()
	m.StatusChanged("NEW")
	m.IdempotencyHit()
	m.IdempotencyStale()
	m.SetIndexSize(0)
}
