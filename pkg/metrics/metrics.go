package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BusMessagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_messages_received_total",
			Help: "Number of messages delivered by the streaming transport",
		},
		[]string{"topic"},
	)
	BusMessagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_messages_dropped_total",
			Help: "Number of messages dropped during normalization",
		},
		[]string{"reason"}, // not_json|no_order_id|empty|invalid
	)
	BusReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_reconnects_total",
			Help: "Number of transport reconnect attempts",
		},
		[]string{"driver"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|expired|set|delete
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var (
	OrderStoreSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_store_size",
			Help: "Number of orders currently held by the order store",
		},
	)
	NotificationQueueLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_queue_length",
			Help: "Number of pending notifications including the active one",
		},
	)
	OrderAccepts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_accept_total",
			Help: "Accept attempts by result",
		},
		[]string{"result"}, // ok|error
	)
	WarmupLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warmup_loads_total",
			Help: "Bulk loads by source and result",
		},
		[]string{"source", "result"}, // api|cache, ok|error
	)
)

var registerOnce sync.Once

// MustRegister регистрирует метрики в default registry; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			BusMessagesReceived, BusMessagesDropped, BusReconnects,
			CacheOps, CacheSize,
			OrderStoreSize, NotificationQueueLength, OrderAccepts, WarmupLoads,
		)
	})
}
