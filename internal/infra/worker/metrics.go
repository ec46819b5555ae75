package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stockitect/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the warm worker. It embeds
// the standard ConfigMetrics for configuration monitoring and adds metrics
// for warm run execution.
//
// Embedded metrics (from ConfigMetrics):
//   - worker_config_load_timestamp
//   - worker_config_validation_errors_total
//   - worker_config_fallbacks_total
//   - worker_config_fallback_active
//
// Worker-specific metrics:
//   - worker_warm_runs_total: warm runs by status (success/failure)
//   - worker_warm_duration_seconds: warm run duration histogram
//   - worker_warm_stocks_total: stock records written into the cache
//   - worker_warm_last_success_timestamp: last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	// WarmRunsTotal counts warm runs by status (success, failure).
	WarmRunsTotal *prometheus.CounterVec

	// WarmDurationSeconds measures the duration of one warm run. Buckets
	// cover the fast path through the slow tail of provider backoff.
	WarmDurationSeconds prometheus.Histogram

	// WarmStocksTotal counts stock records written into the cache.
	WarmStocksTotal prometheus.Counter

	// WarmLastSuccessTimestamp records the Unix timestamp of the last
	// successful warm run.
	WarmLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics register
// automatically via promauto.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		WarmRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_warm_runs_total",
			Help: "Total number of cache warm runs by status (success/failure)",
		}, []string{"status"}),

		WarmDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_warm_duration_seconds",
			Help:    "Duration of one cache warm run in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),

		WarmStocksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_warm_stocks_total",
			Help: "Total number of stock records written into the cache by warm runs",
		}),

		WarmLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_warm_last_success_timestamp",
			Help: "Unix timestamp of the last successful cache warm run",
		}),
	}
}

// RecordRun increments the warm run counter. Status is "success" or "failure".
func (m *WorkerMetrics) RecordRun(status string) {
	m.WarmRunsTotal.WithLabelValues(status).Inc()
}

// RecordDuration observes the duration of one warm run.
func (m *WorkerMetrics) RecordDuration(d time.Duration) {
	m.WarmDurationSeconds.Observe(d.Seconds())
}

// RecordStocksWarmed adds the number of records one run wrote to the cache.
func (m *WorkerMetrics) RecordStocksWarmed(count int) {
	m.WarmStocksTotal.Add(float64(count))
}

// RecordLastSuccess stamps the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.WarmLastSuccessTimestamp.SetToCurrentTime()
}
