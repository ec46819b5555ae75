package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder records cache effectiveness metrics.
// The interface keeps the cache testable without a Prometheus registry and
// leaves room for other metrics systems.
type MetricsRecorder interface {
	// RecordHit increments the hit counter for a cache category.
	RecordHit(category string)

	// RecordMiss increments the miss counter for a cache category.
	// Expired and unparseable entries count as misses.
	RecordMiss(category string)

	// RecordError increments the store-failure counter for an operation.
	RecordError(op string)
}

// NoopMetrics discards all measurements. Used in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordHit(string)   {}
func (NoopMetrics) RecordMiss(string)  {}
func (NoopMetrics) RecordError(string) {}

// PrometheusMetrics implements MetricsRecorder on the default registry.
type PrometheusMetrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewPrometheusMetrics registers and returns the cache metric collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		hits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockitect_cache_hits_total",
			Help: "Number of cache reads served from a fresh entry.",
		}, []string{"category"}),
		misses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockitect_cache_misses_total",
			Help: "Number of cache reads that found no usable entry (absent, expired, or unparseable).",
		}, []string{"category"}),
		errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockitect_cache_store_errors_total",
			Help: "Number of key-value store failures absorbed by the cache layer.",
		}, []string{"op"}),
	}
}

func (m *PrometheusMetrics) RecordHit(category string)  { m.hits.WithLabelValues(category).Inc() }
func (m *PrometheusMetrics) RecordMiss(category string) { m.misses.WithLabelValues(category).Inc() }
func (m *PrometheusMetrics) RecordError(op string)      { m.errors.WithLabelValues(op).Inc() }
