// Package observability provides logging and tracing infrastructure.
//
// Subpackages:
//   - logging: structured logging utilities with slog
//   - tracing: OpenTelemetry tracing integration
//
// Prometheus metric definitions live next to the subsystems that record
// them (transport, cache, HTTP handlers, worker) behind small recorder
// interfaces with noop implementations for tests.
package observability
