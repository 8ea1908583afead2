package metrics

import "time"

// RecordDigest records one produced summary or tag set.
// Kind is "summary" or "tags"; source is "remote" or "local".
func RecordDigest(kind, source string, duration time.Duration) {
	NoteDigestsTotal.WithLabelValues(kind, source).Inc()
	DigestDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRefreshRun records the outcome of a worker refresh run.
func RecordRefreshRun(success bool) {
	DigestRefreshRuns.WithLabelValues(status(success)).Inc()
}

// RecordImport records the outcome of a web page import.
func RecordImport(success bool) {
	ImportsTotal.WithLabelValues(status(success)).Inc()
}

// UpdateNotesTotal updates the total count of notes in the database.
func UpdateNotesTotal(count int) {
	NotesTotal.Set(float64(count))
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
