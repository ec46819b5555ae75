package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metrics
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration tracks latency with buckets sized for an API
	// that mostly answers from cache (fast) but sometimes waits on the
	// upstream provider's retry/backoff loop (slow tail).
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	stocksServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocks_served_total",
			Help: "Total number of stock records returned to clients",
		},
		[]string{"mode"}, // browse or search
	)
)

// knownPaths is the closed set of routes exposed by this API. Arbitrary
// request paths (scanners, typos) collapse into one label so metric
// cardinality stays bounded.
var knownPaths = map[string]struct{}{
	"/stocks":        {},
	"/stocks/search": {},
	"/health":        {},
	"/ready":         {},
	"/live":          {},
	"/metrics":       {},
}

func metricsPath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return "other"
}

// RecordStocksServed counts records returned to clients per access mode.
func RecordStocksServed(mode string, count int) {
	stocksServedTotal.WithLabelValues(mode).Add(float64(count))
}

// responseWriter wraps http.ResponseWriter to record status code and response size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// MetricsMiddleware records request counts, duration, in-flight gauge and
// response sizes, keyed by method, route and status.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		path := metricsPath(r.URL.Path)

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start).Seconds()

		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		httpResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.size))
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
