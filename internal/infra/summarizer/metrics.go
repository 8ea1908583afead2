package summarizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder receives one observation per completed summary.
type SummaryMetricsRecorder interface {
	RecordLength(runes int)
	RecordLimitExceeded()
	RecordCompliance(withinLimit bool)
	RecordDuration(d time.Duration)
}

var (
	summaryLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "note_summary_length_characters",
		Help:    "LLM summary length in runes.",
		Buckets: []float64{50, 100, 200, 400, 600, 800, 1200, 2000},
	})
	summaryOverLimit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "note_summary_limit_exceeded_total",
		Help: "LLM summaries longer than the configured character limit.",
	})
	summaryCompliance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "note_summary_limit_compliance",
		Help: "1 when the latest LLM summary fit the character limit, else 0.",
	})
	summaryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "note_summarization_duration_seconds",
		Help:    "LLM API round trip for one summary.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)

// PrometheusSummaryMetrics writes to the process-wide collectors above, so
// any number of summarizers can share them.
type PrometheusSummaryMetrics struct{}

func NewPrometheusSummaryMetrics() PrometheusSummaryMetrics { return PrometheusSummaryMetrics{} }

func (PrometheusSummaryMetrics) RecordLength(runes int) { summaryLength.Observe(float64(runes)) }
func (PrometheusSummaryMetrics) RecordLimitExceeded()   { summaryOverLimit.Inc() }
func (PrometheusSummaryMetrics) RecordDuration(d time.Duration) {
	summaryDuration.Observe(d.Seconds())
}

func (PrometheusSummaryMetrics) RecordCompliance(withinLimit bool) {
	v := 0.0
	if withinLimit {
		v = 1
	}
	summaryCompliance.Set(v)
}

func recordSummary(m SummaryMetricsRecorder, length, limit int, d time.Duration) {
	m.RecordLength(length)
	m.RecordDuration(d)
	m.RecordCompliance(length <= limit)
	if length > limit {
		m.RecordLimitExceeded()
	}
}
