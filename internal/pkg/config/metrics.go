package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics exposes the fallback audit trail as Prometheus metrics,
// prefixed with a component name ("worker" yields
// worker_config_load_timestamp, worker_config_validation_errors_total,
// worker_config_fallbacks_total, worker_config_fallback_active).
//
// Metrics register on the default registry; one instance per component
// name per process, or promauto panics.
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge

	componentName string
}

// NewConfigMetrics registers the configuration metric set for one component.
func NewConfigMetrics(componentName string) *ConfigMetrics {
	return &ConfigMetrics{
		LoadTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),
		ValidationErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_validation_errors_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", componentName),
		}, []string{"field"}),
		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallback operations", componentName),
		}, []string{"field"}),
		FallbackActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		}),
		componentName: componentName,
	}
}

// RecordLoadTimestamp stamps the current time as the last load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError counts a validation failure for a field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback counts an applied fallback for a field. The fallback
// type is kept for call-site context but not labeled, to bound
// cardinality.
func (m *ConfigMetrics) RecordFallback(field, fallbackType string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive marks whether any field is currently running on a
// fallback value.
func (m *ConfigMetrics) SetFallbackActive(field string, active bool) {
	if active {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
}
