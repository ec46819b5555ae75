package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"stockitect/internal/handler/http/requestid"
	"stockitect/internal/handler/http/respond"
	"stockitect/internal/handler/http/responsewriter"

	"go.opentelemetry.io/otel/trace"
)

// Logging returns middleware that logs HTTP requests with structured logging.
// It captures request details, response status, size, and processing duration,
// plus the OpenTelemetry trace ID so logs correlate with traces.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := responsewriter.Wrap(w)
			next.ServeHTTP(wrapped, r)

			reqID := requestid.FromContext(r.Context())
			span := trace.SpanFromContext(r.Context())
			traceID := span.SpanContext().TraceID().String()
			duration := time.Since(start)

			logger.Info("request completed",
				slog.String("request_id", reqID),
				slog.String("trace_id", traceID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int("status", wrapped.StatusCode()),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", duration),
			)
		})
	}
}

// Recover returns middleware that catches panics, logs them with a stack
// trace, and answers 500 instead of crashing the server.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					reqID := requestid.FromContext(r.Context())
					stack := string(debug.Stack())

					respond.SafeError(
						w,
						http.StatusInternalServerError,
						fmt.Errorf("internal error"),
					)

					logger.Error("panic recovered",
						slog.String("request_id", reqID),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
						slog.String("stack", stack),
					)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestRecord stores request timestamps for sliding window rate limiting.
type requestRecord struct {
	timestamps []time.Time
	mu         sync.Mutex
}

// RateLimiter implements IP address-based rate limiting middleware using a
// sliding window algorithm. This protects the API itself; the upstream
// provider's rate limit is handled separately by the transport.
type RateLimiter struct {
	records   sync.Map // map[string]*requestRecord
	limit     int
	window    time.Duration
	cleanMu   sync.Mutex
	lastClean time.Time
}

// NewRateLimiter creates a rate limiting middleware allowing limit
// requests per window per client IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		window:    window,
		lastClean: time.Now(),
	}
}

// Limit applies rate limiting based on client IP address. Exceeding the
// limit answers 429 Too Many Requests.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)

		rl.periodicCleanup()

		if !rl.allow(ip) {
			respond.SafeError(w, http.StatusTooManyRequests, fmt.Errorf("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow determines if a request is permitted and records the timestamp if allowed.
func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()

	val, _ := rl.records.LoadOrStore(ip, &requestRecord{
		timestamps: make([]time.Time, 0, rl.limit),
	})
	record := val.(*requestRecord)

	record.mu.Lock()
	defer record.mu.Unlock()

	cutoff := now.Add(-rl.window)
	validTimestamps := make([]time.Time, 0, len(record.timestamps))
	for _, ts := range record.timestamps {
		if ts.After(cutoff) {
			validTimestamps = append(validTimestamps, ts)
		}
	}
	record.timestamps = validTimestamps

	if len(record.timestamps) >= rl.limit {
		return false
	}

	record.timestamps = append(record.timestamps, now)
	return true
}

// periodicCleanup drops stale per-IP records so the map cannot grow without bound.
func (rl *RateLimiter) periodicCleanup() {
	rl.cleanMu.Lock()
	defer rl.cleanMu.Unlock()

	if time.Since(rl.lastClean) < 10*time.Minute {
		return
	}

	rl.lastClean = time.Now()
	cutoff := time.Now().Add(-rl.window * 2)

	rl.records.Range(func(key, value interface{}) bool {
		record := value.(*requestRecord)
		record.mu.Lock()
		stale := true
		for _, ts := range record.timestamps {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		record.mu.Unlock()
		if stale {
			rl.records.Delete(key)
		}
		return true
	})
}

// extractIP extracts the client IP address from the HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP parses the first IP address from a comma-separated list.
func parseFirstIP(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			ip := net.ParseIP(s[:i])
			if ip != nil {
				return ip.String()
			}
			return ""
		}
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
