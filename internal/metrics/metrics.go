package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics holds collectors for the order service client, the cart and the views gateway.
type Metrics struct {
	registry *prometheus.Registry

	TransportRequests *prometheus.CounterVec
	TransportDuration *prometheus.HistogramVec
	BreakerState      *prometheus.GaugeVec
	CartItems         prometheus.Gauge
	CartPublications  prometheus.Counter
	ReorderOutcomes   *prometheus.CounterVec
	GatewayRequests   *prometheus.CounterVec
	GatewayDuration   *prometheus.HistogramVec
}

// New registers collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TransportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders_client",
			Name:      "requests_total",
			Help:      "Order service calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		TransportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orders_client",
			Name:      "request_duration_seconds",
			Help:      "Order service call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orders_client",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=open, 2=half-open).",
		}, []string{"circuit"}),
		CartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "items",
			Help:      "Item count of the cached cart.",
		}),
		CartPublications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "publications_total",
			Help:      "Cart snapshots published to subscribers.",
		}),
		ReorderOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reorder",
			Name:      "outcomes_total",
			Help:      "Reorder attempts by outcome.",
		}, []string{"outcome"}),
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Views gateway requests.",
		}, []string{"method", "route", "status"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Views gateway request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TransportRequests,
		m.TransportDuration,
		m.BreakerState,
		m.CartItems,
		m.CartPublications,
		m.ReorderOutcomes,
		m.GatewayRequests,
		m.GatewayDuration,
	)
	return m
}

// Registry exposes the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
