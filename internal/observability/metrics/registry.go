package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestLabels = []string{"method", "path", "status"}
	sizeLabels    = []string{"method", "path"}
	sizeBuckets   = prometheus.ExponentialBuckets(100, 10, 8)
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by method, normalized path and status.",
	}, requestLabels)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Wall time spent serving a request.",
		Buckets: prometheus.DefBuckets,
	}, requestLabels)

	HTTPRequestSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_size_bytes",
		Help:    "Declared request body size.",
		Buckets: sizeBuckets,
	}, sizeLabels)

	HTTPResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "Response body bytes written.",
		Buckets: sizeBuckets,
	}, sizeLabels)
)

var (
	NotesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notes_total",
		Help: "Notes seen by the most recent list call.",
	})

	// NoteDigestsTotal is labelled kind=summary|tags, source=remote|local.
	NoteDigestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "note_digests_total",
		Help: "Summaries and tag sets produced.",
	}, []string{"kind", "source"})

	DigestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "note_digest_duration_seconds",
		Help:    "Time to produce one summary or tag set.",
		Buckets: prometheus.ExponentialBuckets(0.005, 3, 10),
	}, []string{"kind"})

	DigestRefreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "note_digest_refresh_runs_total",
		Help: "Stale digest refresh runs, by status.",
	}, []string{"status"})

	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "note_imports_total",
		Help: "Web page clipping attempts, by result.",
	}, []string{"result"})
)

var (
	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_active",
		Help: "Pool connections in use.",
	})
	DBConnectionsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_idle",
		Help: "Idle pool connections.",
	})
)

// RecordHTTPRequest observes one served request. Zero sizes are skipped.
func RecordHTTPRequest(method, path, status string, d time.Duration, reqBytes, respBytes int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
	if reqBytes > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqBytes))
	}
	if respBytes > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respBytes))
	}
}
