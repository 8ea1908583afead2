package http

import (
	"net/http"
	"strconv"
	"time"

	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/responsewriter"
	"smartnotes/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "http_requests_in_flight",
	Help: "Requests currently being served.",
})

// MetricsMiddleware feeds the HTTP request metrics. Paths are normalized
// so note IDs do not become label values.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)
		began := time.Now()
		next.ServeHTTP(rw, r)

		metrics.RecordHTTPRequest(r.Method, pathutil.NormalizePath(r.URL.Path),
			strconv.Itoa(rw.StatusCode()), time.Since(began),
			int(max(r.ContentLength, 0)), rw.BytesWritten())
	})
}

func MetricsHandler() http.Handler { return promhttp.Handler() }
