// Package metrics provides Prometheus metrics for FlowAtlas.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Engine metrics.
	PacketsProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowatlas",
		Subsystem: "engine",
		Name:      "packets_processed_total",
		Help:      "Total number of packets consumed from the transport.",
	})
	SamplesUnresolvedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowatlas",
		Subsystem: "engine",
		Name:      "samples_unresolved_total",
		Help:      "Packets whose source and destination both failed GeoIP resolution.",
	})

	// Table state store metrics.
	IntentsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowatlas",
		Subsystem: "store",
		Name:      "intents_applied_total",
		Help:      "Table state update intents applied, by delta kind.",
	}, []string{"kind"}) // "limit", "page" or "sort"

	// Query metrics.
	QueryDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "flowatlas",
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Latency of top-countries queries against ClickHouse.",
		Buckets:   prometheus.DefBuckets,
	})

	// Dashboard push metrics.
	WSClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "flowatlas",
		Subsystem: "ws",
		Name:      "clients_active",
		Help:      "Number of currently connected websocket clients.",
	})
	WSMessagesDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flowatlas",
		Subsystem: "ws",
		Name:      "messages_dropped_total",
		Help:      "Messages dropped because a client send buffer was full.",
	})
)

func init() {
	prometheus.MustRegister(
		PacketsProcessedTotal,
		SamplesUnresolvedTotal,
		IntentsAppliedTotal,
		QueryDurationSeconds,
		WSClientsActive,
		WSMessagesDroppedTotal,
	)
}
