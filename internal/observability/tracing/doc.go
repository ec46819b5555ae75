// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware extracts W3C trace context from incoming requests,
// opens a server span per request, and echoes the trace ID back in the
// X-Trace-Id response header so clients can correlate failures.
//
// Example usage:
//
//	mux := http.NewServeMux()
//	handler := tracing.Middleware(mux)
package tracing
