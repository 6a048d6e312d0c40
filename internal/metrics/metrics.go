package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the engine.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	Generations       *prometheus.CounterVec
	CompletionLatency *prometheus.HistogramVec

	StoredIdeas       prometheus.Gauge
	StoreReadFailures *prometheus.CounterVec
	StoreWrites       *prometheus.CounterVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics creates and registers all collectors once per process.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "roulette_http_requests_total",
					Help: "HTTP requests by method, route and status",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "roulette_http_request_duration_seconds",
					Help:    "HTTP request latency",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
			Generations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "roulette_generations_total",
					Help: "Project idea generations by outcome",
				},
				[]string{"outcome"},
			),
			CompletionLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "roulette_completion_latency_seconds",
					Help:    "Latency of completion endpoint calls",
					Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to 32s
				},
				[]string{"model", "success"},
			),
			StoredIdeas: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "roulette_stored_ideas",
					Help: "Ideas currently held in the capped history",
				},
			),
			StoreReadFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "roulette_store_read_failures_total",
					Help: "Reads of the idea history that fell back to an empty list",
				},
				[]string{"reason"},
			),
			StoreWrites: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "roulette_store_writes_total",
					Help: "Writes to the idea history by operation and outcome",
				},
				[]string{"op", "success"},
			),
		}
	})
	return sharedMetrics
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// RecordHTTPRequest counts one served request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordCompletion observes one call to the completion endpoint.
func (m *Metrics) RecordCompletion(model string, success bool, seconds float64) {
	if m == nil {
		return
	}
	m.CompletionLatency.WithLabelValues(model, boolLabel(success)).Observe(seconds)
}

// RecordGeneration counts a finished generate request. outcome is an error code or "ok".
func (m *Metrics) RecordGeneration(outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
}

// RecordStoreReadFailure counts a read that was swallowed and returned as empty.
func (m *Metrics) RecordStoreReadFailure(reason string) {
	if m == nil {
		return
	}
	m.StoreReadFailures.WithLabelValues(reason).Inc()
}

// RecordStoreWrite counts a write and, on success, publishes the new history size.
func (m *Metrics) RecordStoreWrite(op string, success bool, size int) {
	if m == nil {
		return
	}
	m.StoreWrites.WithLabelValues(op, boolLabel(success)).Inc()
	if success {
		m.StoredIdeas.Set(float64(size))
	}
}
