// Package http holds the notes API middleware chain and its probe
// endpoints.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"smartnotes/internal/handler/http/respond"
	"smartnotes/internal/observability/metrics"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	// Pool utilization at or above this percentage degrades the database check.
	poolSaturationPct = 80.0
)

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Breaker is a remote dependency guarded by a circuit breaker.
type Breaker interface {
	Name() string
	IsOpen() bool
}

// HealthHandler reports 503 only when the database is down. An open
// breaker degrades its own check; the local digest keeps serving.
type HealthHandler struct {
	DB       *sql.DB
	Version  string
	Breakers []Breaker
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	db := h.databaseCheck(ctx)
	checks := map[string]CheckStatus{"database": db}
	for _, b := range h.Breakers {
		c := CheckStatus{Status: statusHealthy}
		if b.IsOpen() {
			c = CheckStatus{Status: statusDegraded, Message: "circuit breaker open"}
		}
		checks[b.Name()] = c
	}

	resp := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if db.Status == statusUnhealthy {
		resp.Status, code = statusUnhealthy, http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, resp)
}

func (h *HealthHandler) databaseCheck(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: err.Error()}
	}

	s := h.DB.Stats()
	metrics.UpdateDBConnectionStats(s.InUse, s.Idle)
	c := CheckStatus{Status: statusHealthy, Details: map[string]any{
		"max_open_connections": s.MaxOpenConnections,
		"open_connections":     s.OpenConnections,
		"in_use":               s.InUse,
		"idle":                 s.Idle,
		"wait_count":           s.WaitCount,
		"wait_duration_ms":     s.WaitDuration.Milliseconds(),
	}}
	if s.MaxOpenConnections == 0 {
		return c
	}
	pct := 100 * float64(s.InUse) / float64(s.MaxOpenConnections)
	c.Details["utilization_percent"] = pct
	if pct >= poolSaturationPct {
		c.Status = statusDegraded
		c.Message = "connection pool utilization above 80%"
	}
	return c
}

// ReadyHandler answers 200 once the database responds to a ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	switch {
	case h.DB == nil:
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
	case h.DB.PingContext(ctx) != nil:
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
	default:
		plain(w, "ready")
	}
}

// LiveHandler answers 200 for as long as the process can respond.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) { plain(w, "alive") }

func plain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
