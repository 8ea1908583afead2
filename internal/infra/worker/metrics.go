package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"smartnotes/internal/pkg/config"
)

// Metrics covers the refresh job and how its configuration was loaded.
type Metrics struct {
	Config *config.Metrics

	JobRuns       *prometheus.CounterVec
	JobDuration   prometheus.Histogram
	NotesDigested *prometheus.CounterVec
	LastSuccess   prometheus.Gauge
}

// NewMetrics registers the worker series on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Config: config.NewMetricsWith(reg, "worker"),

		JobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_job_runs_total",
			Help: "Refresh job runs by status (success, failure, skipped)",
		}, []string{"status"}),

		JobDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_digest_job_duration_seconds",
			Help:    "Wall time of one refresh job run",
			Buckets: []float64{0.5, 1, 5, 30, 60, 300, 900},
		}),

		NotesDigested: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_notes_digested_total",
			Help: "Notes handled by the refresh job by outcome (remote, local, failed)",
		}, []string{"outcome"}),

		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_digest_job_last_success_timestamp",
			Help: "Unix time of the last successful refresh run",
		}),
	}
}

func (m *Metrics) recordRun(status string, seconds float64) {
	m.JobRuns.WithLabelValues(status).Inc()
	if status != statusSkipped {
		m.JobDuration.Observe(seconds)
	}
	if status == statusSuccess {
		m.LastSuccess.SetToCurrentTime()
	}
}

func (m *Metrics) recordNotes(remote, local, failed int) {
	m.NotesDigested.WithLabelValues("remote").Add(float64(remote))
	m.NotesDigested.WithLabelValues("local").Add(float64(local))
	m.NotesDigested.WithLabelValues("failed").Add(float64(failed))
}
