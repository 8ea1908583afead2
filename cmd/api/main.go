package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartnotes/internal/app"
	hhttp "smartnotes/internal/handler/http"
	haiHandler "smartnotes/internal/handler/http/ai"
	"smartnotes/internal/handler/http/auth"
	hglossary "smartnotes/internal/handler/http/glossary"
	hgrammar "smartnotes/internal/handler/http/grammar"
	hnote "smartnotes/internal/handler/http/note"
	"smartnotes/internal/handler/http/requestid"
	"smartnotes/internal/observability/logging"
	"smartnotes/internal/observability/tracing"
	"smartnotes/internal/repository"
	"smartnotes/internal/resilience/circuitbreaker"
	noteUC "smartnotes/internal/usecase/note"
	"smartnotes/pkg/config"
)

const serviceName = "smartnotes-api"

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	shutdownTracing := tracing.Init(serviceName, config.GetEnvFloat("TRACE_SAMPLE_RATIO", 0.1))
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	secret := loadJWTSecret(logger)

	ctx := context.Background()
	database, repo, err := app.OpenStore(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := config.GetEnvString("VERSION", "dev")
	handler := setupServer(logger, database, repo, secret, version)
	runServer(logger, handler, version)
}

// loadJWTSecret returns nil when JWT_SECRET is unset, which leaves the API
// open. A configured secret must be at least 32 bytes.
func loadJWTSecret(logger *slog.Logger) []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Warn("JWT_SECRET not set, API authentication disabled")
		return nil
	}
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	return []byte(secret)
}

// setupServer wires the services, routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, repo repository.NoteRepository, secret []byte, version string) http.Handler {
	clipper, err := app.NewFetcher(logger)
	if err != nil {
		logger.Error("failed to load content fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}

	aiSvc, err := app.NewAI(logger, repo)
	if err != nil {
		logger.Error("failed to load AI configuration", slog.Any("error", err))
		os.Exit(1)
	}

	grammarSvc, grammarBreaker, err := app.NewGrammar(logger)
	if err != nil {
		logger.Error("failed to load grammar configuration", slog.Any("error", err))
		os.Exit(1)
	}

	terms, err := app.LoadGlossary(logger)
	if err != nil {
		logger.Error("failed to load glossary", slog.Any("error", err))
		os.Exit(1)
	}

	breakers := append([]*circuitbreaker.CircuitBreaker{clipper.Breaker()}, aiSvc.Breakers...)
	if grammarBreaker != nil {
		breakers = append(breakers, grammarBreaker)
	}
	health := make([]hhttp.Breaker, 0, len(breakers))
	for _, b := range breakers {
		health = append(health, b)
	}

	noteSvc := &noteUC.Service{Repo: repo, Fetcher: clipper}

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: version, Breakers: health})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hnote.Register(mux, noteSvc, aiSvc.Service)
	haiHandler.Register(mux, aiSvc.Service)
	hgrammar.Register(mux, grammarSvc)
	hglossary.Register(mux, terms)

	proxies, err := hhttp.LoadTrustedProxies()
	if err != nil {
		logger.Error("invalid trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	limiter := hhttp.NewClientLimiter(
		config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 20),
		config.GetEnvInt("RATE_LIMIT_BURST", 5),
		proxies,
	)
	logger.Info("routes registered",
		slog.Bool("auth_enabled", secret != nil),
		slog.Bool("trust_proxy", proxies.Enabled),
		slog.Int("breakers", len(breakers)))

	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.LimitRequestBody(int64(config.GetEnvInt("MAX_REQUEST_BODY_BYTES", 1<<20))),
		hhttp.MetricsMiddleware,
		auth.Authz(secret),
		limiter.LimitMatching(hhttp.CallsRemote),
	)
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
