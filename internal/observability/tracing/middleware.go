package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/responsewriter"
)

// Middleware starts a server span per request, continuing any W3C trace
// context in the headers, and returns the trace ID in X-Trace-Id.
//
// The span is named after the mux pattern when this middleware wraps the
// mux directly, otherwise after the normalized path. 5xx responses mark
// the span as failed.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		w.Header().Set("X-Trace-Id", span.SpanContext().TraceID().String())

		rw := responsewriter.Wrap(w)
		r = r.WithContext(ctx)
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = r.Method + " " + pathutil.NormalizePath(r.URL.Path)
		}
		status := rw.StatusCode()

		span.SetName(route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.String("http.method", r.Method),
			attribute.String("http.path", r.URL.Path),
			attribute.Int("http.status_code", status),
		)
		if status >= 500 {
			span.SetAttributes(attribute.Bool("error", true))
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}
