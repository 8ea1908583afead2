package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Breaker is the view of a circuit breaker the health endpoint needs.
type Breaker interface {
	Name() string
	IsOpen() bool
}

// HealthServer exposes liveness, readiness and Prometheus metrics for the
// worker process:
//   - GET /health always 200
//   - GET /health/ready 200 once SetReady(true), otherwise 503
//   - GET /health/breakers state of each remote dependency
//   - GET /metrics
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	breakers []Breaker
	ready    atomic.Bool
}

type healthResponse struct {
	Status string `json:"status"`
}

type breakerStatus struct {
	Name string `json:"name"`
	Open bool   `json:"open"`
}

func NewHealthServer(addr string, logger *slog.Logger, gatherer prometheus.Gatherer, breakers ...Breaker) *HealthServer {
	return &HealthServer{
		addr:     addr,
		logger:   logger,
		gatherer: gatherer,
		breakers: breakers,
	}
}

func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
	h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		h.write(w, http.StatusOK, healthResponse{Status: "ok"})
	})
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if h.ready.Load() {
			h.write(w, http.StatusOK, healthResponse{Status: "ok"})
			return
		}
		h.write(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
	})
	mux.HandleFunc("GET /health/breakers", func(w http.ResponseWriter, _ *http.Request) {
		out := make([]breakerStatus, 0, len(h.breakers))
		for _, b := range h.breakers {
			out = append(out, breakerStatus{Name: b.Name(), Open: b.IsOpen()})
		}
		h.write(w, http.StatusOK, out)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start serves until ctx is cancelled, then shuts down within five seconds.
func (h *HealthServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("worker health server starting", slog.String("addr", h.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		h.logger.Info("worker health server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (h *HealthServer) write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode health response", slog.Any("error", err))
	}
}
