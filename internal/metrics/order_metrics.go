package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики операций с заказами.
type OrderMetrics struct {
	ordersCreated    prometheus.Counter
	ordersDeleted    prometheus.Counter
	statusChanges    *prometheus.CounterVec
	idempotencyHits  prometheus.Counter
	idempotencyStale prometheus.Counter
	indexSize        prometheus.Gauge
}

// NewOrderMetrics создаёт и регистрирует метрики в default registerer.
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
			Help: "Total number of orders persisted to the store",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_deleted_total",
			Help: "Total number of orders deleted from the store",
		}),
		statusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_status_changes_total",
			Help: "Total number of order status updates grouped by new status",
		}, []string{"status"}),
		idempotencyHits: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_idempotency_hits_total",
			Help: "Total number of creations deduplicated by idempotency key",
		}),
		idempotencyStale: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_idempotency_stale_total",
			Help: "Total number of stale idempotency entries found during creation",
		}),
		indexSize: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "orders_idempotency_index_size",
			Help: "Current number of entries in the idempotency index",
		}),
	}
}

// OrderCreated фиксирует запись нового заказа в хранилище.
func (m *OrderMetrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// OrderDeleted фиксирует удаление заказа.
func (m *OrderMetrics) OrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

// StatusChanged фиксирует смену статуса заказа.
func (m *OrderMetrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// IdempotencyHit фиксирует возврат существующего заказа по ключу.
func (m *OrderMetrics) IdempotencyHit() {
	if m == nil {
		return
	}
	m.idempotencyHits.Inc()
}

// IdempotencyStale фиксирует протухшую запись индекса (заказ уже удалён).
func (m *OrderMetrics) IdempotencyStale() {
	if m == nil {
		return
	}
	m.idempotencyStale.Inc()
}

// SetIndexSize обновляет gauge размера индекса.
func (m *OrderMetrics) SetIndexSize(n int) {
	if m == nil {
		return
	}
	m.indexSize.Set(float64(n))
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

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}
