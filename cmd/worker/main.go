package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"smartnotes/internal/app"
	"smartnotes/internal/infra/worker"
	"smartnotes/internal/observability/logging"
	"smartnotes/internal/observability/tracing"
	"smartnotes/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	shutdownTracing := tracing.Init("smartnotes-worker", config.GetEnvFloat("TRACE_SAMPLE_RATIO", 0.1))
	defer func() { _ = shutdownTracing(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("worker failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	metrics := worker.NewMetrics(prometheus.DefaultRegisterer)
	cfg := worker.LoadConfigFromEnv(logger, metrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Int("parallelism", cfg.Parallelism),
		slog.Duration("job_timeout", cfg.JobTimeout),
		slog.Int("health_port", cfg.HealthPort))

	database, repo, err := app.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	aiSvc, err := app.NewAI(logger, repo)
	if err != nil {
		return fmt.Errorf("load AI configuration: %w", err)
	}

	breakers := make([]worker.Breaker, 0, len(aiSvc.Breakers))
	for _, b := range aiSvc.Breakers {
		breakers = append(breakers, b)
	}
	health := worker.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger, prometheus.DefaultGatherer, breakers...)
	healthErr := make(chan error, 1)
	go func() { healthErr <- health.Start(ctx) }()

	scheduler, err := worker.NewScheduler(cfg, aiSvc.Service, metrics, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	health.SetReady(true)

	if config.GetEnvBool("DIGEST_RUN_ON_START", false) {
		go func() { _ = scheduler.RunOnce(ctx) }()
	}

	select {
	case <-ctx.Done():
	case err := <-healthErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}

	logger.Info("worker shutting down")
	health.SetReady(false)
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scheduler.Stop(stopCtx)
	logger.Info("worker stopped")
	return nil
}
