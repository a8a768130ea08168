// Package metrics exposes the service's Prometheus instrumentation: request
// counts and latency by language, plus the live admission gauges that
// admission.Controller reports through via the GaugeSink interface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service exposes at /metrics.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	ConcurrentRequests prometheus.Gauge
	QueueSize          prometheus.Gauge
}

// New registers all collectors against reg and returns the handle used to
// record observations. Pass prometheus.NewRegistry() in tests to avoid
// colliding with the global default registry across test runs.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sandbox_requests_total",
			Help: "Total number of sandbox execution requests, by language and endpoint.",
		}, []string{"language", "endpoint"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sandbox_request_duration_seconds",
			Help:    "Wall-clock duration of sandbox execution requests, by language.",
			Buckets: prometheus.DefBuckets,
		}, []string{"language"}),
		ConcurrentRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sandbox_concurrent_requests",
			Help: "Number of sandbox executions currently running.",
		}),
		QueueSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sandbox_queue_size",
			Help: "Number of sandbox requests currently waiting for an execution slot.",
		}),
	}
}

// SetQueueSize implements admission.GaugeSink.
func (m *Metrics) SetQueueSize(n int) { m.QueueSize.Set(float64(n)) }

// SetConcurrentRequests implements admission.GaugeSink.
func (m *Metrics) SetConcurrentRequests(n int) { m.ConcurrentRequests.Set(float64(n)) }
