// Package observability groups the logging, metrics and tracing support
// shared by the API, the worker and the digest CLI.
//
// Subpackages:
//   - logging: slog setup and request-scoped loggers
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer and HTTP middleware
package observability
