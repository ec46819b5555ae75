package polygon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder records transport-level request metrics.
type MetricsRecorder interface {
	// RecordAttempt counts one issued HTTP attempt.
	RecordAttempt()

	// RecordRetry counts one backoff-and-retry cycle after a 429.
	RecordRetry()

	// RecordStatus counts a completed attempt by HTTP status code.
	RecordStatus(status int)
}

// NoopMetrics discards all measurements. Used in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordAttempt()    {}
func (NoopMetrics) RecordRetry()      {}
func (NoopMetrics) RecordStatus(int)  {}

// PrometheusMetrics implements MetricsRecorder on the default registry.
type PrometheusMetrics struct {
	attempts prometheus.Counter
	retries  prometheus.Counter
	statuses *prometheus.CounterVec
}

// NewPrometheusMetrics registers and returns the transport metric collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		attempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockitect_provider_attempts_total",
			Help: "Number of HTTP attempts issued to the market-data provider, including retries.",
		}),
		retries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockitect_provider_retries_total",
			Help: "Number of backoff-and-retry cycles triggered by HTTP 429 responses.",
		}),
		statuses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockitect_provider_responses_total",
			Help: "Provider responses by HTTP status code.",
		}, []string{"status"}),
	}
}

func (m *PrometheusMetrics) RecordAttempt() { m.attempts.Inc() }
func (m *PrometheusMetrics) RecordRetry()   { m.retries.Inc() }
func (m *PrometheusMetrics) RecordStatus(status int) {
	m.statuses.WithLabelValues(statusLabel(status)).Inc()
}

func statusLabel(status int) string {
	// Small fixed label space; avoids a label per exotic status.
	switch {
	case status == 429:
		return "429"
	case status == 401:
		return "401"
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "other"
	}
}
