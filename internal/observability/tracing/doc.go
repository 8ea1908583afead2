// Package tracing wires OpenTelemetry into the HTTP server and the use cases.
//
// Init installs a tracer provider and the W3C trace-context propagator.
// Middleware opens a server span per request and exposes its trace ID in the
// X-Trace-Id response header. StartSpan is used by the AI service to trace
// remote summarization and tagging.
//
// Example usage:
//
//	shutdown := tracing.Init("smartnotes-api", 1.0)
//	defer func() { _ = shutdown(context.Background()) }()
//
//	ctx, span := tracing.StartSpan(ctx, "ai.summarize")
//	defer span.End()
package tracing
