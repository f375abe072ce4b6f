package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request throughput and latency per route.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, labeled by status class.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, total)
	return &HTTPMetrics{duration: duration, total: total}
}

// Observe records one served request.
func (h *HTTPMetrics) Observe(method, route, status string, elapsed time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	h.total.WithLabelValues(method, route, status).Inc()
}

// CatalogMetrics counts upstream catalog fetches.
type CatalogMetrics struct {
	fetches *prometheus.CounterVec
	stale   prometheus.Counter
}

// NewCatalogMetrics registers catalog accessor metrics.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_total",
		Help: "Catalog fetches by operation and outcome.",
	}, []string{"operation", "outcome"})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_stale_refresh_discarded_total",
		Help: "Refresh results discarded because a newer generation already published.",
	})
	reg.MustRegister(fetches, stale)
	return &CatalogMetrics{fetches: fetches, stale: stale}
}

// IncFetch counts one catalog fetch attempt.
func (c *CatalogMetrics) IncFetch(operation, outcome string) {
	if c == nil || c.fetches == nil {
		return
	}
	c.fetches.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncStaleDiscard counts one discarded stale refresh.
func (c *CatalogMetrics) IncStaleDiscard() {
	if c == nil || c.stale == nil {
		return
	}
	c.stale.Inc()
}

// CartMetrics counts cart engine operations.
type CartMetrics struct {
	ops *prometheus.CounterVec
}

// NewCartMetrics registers cart operation counters.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart engine operations by name.",
	}, []string{"operation"})
	reg.MustRegister(ops)
	return &CartMetrics{ops: ops}
}

// IncOp counts one cart operation.
func (c *CartMetrics) IncOp(operation string) {
	if c == nil || c.ops == nil {
		return
	}
	c.ops.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
