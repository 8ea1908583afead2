// Package metrics provides the Prometheus metrics shared across the application.
//
// It covers HTTP traffic, note and digest activity, web clipping and the
// database. All metrics are registered with the default registry and exposed
// through the /metrics endpoint of the API and the worker.
//
// Example usage:
//
//	import "smartnotes/internal/observability/metrics"
//
//	start := time.Now()
//	res, err := svc.Summarize(ctx, text)
//	metrics.RecordDigest("summary", res.Source, time.Since(start))
package metrics
