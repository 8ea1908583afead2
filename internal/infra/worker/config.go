package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smartnotes/internal/pkg/config"
)

// Config controls the stale-digest refresh job.
//
// Environment variables:
//   - DIGEST_CRON_SCHEDULE: five-field cron expression (default "*/15 * * * *")
//   - DIGEST_TIMEZONE: IANA zone the schedule is evaluated in (default "UTC")
//   - DIGEST_BATCH_SIZE: notes refreshed per run, 1-1000 (default 50)
//   - DIGEST_PARALLELISM: concurrent enrichments, 1-32 (default 4)
//   - DIGEST_JOB_TIMEOUT: per-run deadline, 1m-2h (default 10m)
//   - WORKER_HEALTH_PORT: health and metrics port, 1024-65535 (default 9091)
type Config struct {
	CronSchedule string
	Timezone     string
	BatchSize    int
	Parallelism  int
	JobTimeout   time.Duration
	HealthPort   int
}

func DefaultConfig() Config {
	return Config{
		CronSchedule: "*/15 * * * *",
		Timezone:     "UTC",
		BatchSize:    50,
		Parallelism:  4,
		JobTimeout:   10 * time.Minute,
		HealthPort:   9091,
	}
}

var (
	batchSizeRange   = config.IntRange(1, 1000)
	parallelismRange = config.IntRange(1, 32)
	jobTimeoutRange  = config.DurationRange(time.Minute, 2*time.Hour)
	healthPortRange  = config.IntRange(1024, 65535)
)

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	check := func(field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	check("cron schedule", config.ValidateCronSchedule(c.CronSchedule))
	check("timezone", config.ValidateTimezone(c.Timezone))
	check("batch size", batchSizeRange(c.BatchSize))
	check("parallelism", parallelismRange(c.Parallelism))
	check("job timeout", jobTimeoutRange(c.JobTimeout))
	check("health port", healthPortRange(c.HealthPort))
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv never fails: a bad value is replaced by its default,
// logged and counted in m. m may be nil.
func LoadConfigFromEnv(logger *slog.Logger, m *Metrics) Config {
	cfg := DefaultConfig()
	var fallbacks []string

	note := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallbacks = append(fallbacks, field)
		logger.Warn("worker configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	s := config.LoadString("DIGEST_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = s.Value
	note("cron_schedule", s.Warning, s.FallbackApplied)

	s = config.LoadString("DIGEST_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = s.Value
	note("timezone", s.Warning, s.FallbackApplied)

	i := config.LoadInt("DIGEST_BATCH_SIZE", cfg.BatchSize, batchSizeRange)
	cfg.BatchSize = i.Value
	note("batch_size", i.Warning, i.FallbackApplied)

	i = config.LoadInt("DIGEST_PARALLELISM", cfg.Parallelism, parallelismRange)
	cfg.Parallelism = i.Value
	note("parallelism", i.Warning, i.FallbackApplied)

	d := config.LoadDuration("DIGEST_JOB_TIMEOUT", cfg.JobTimeout, jobTimeoutRange)
	cfg.JobTimeout = d.Value
	note("job_timeout", d.Warning, d.FallbackApplied)

	i = config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, healthPortRange)
	cfg.HealthPort = i.Value
	note("health_port", i.Warning, i.FallbackApplied)

	if m != nil {
		m.Config.Observe(fallbacks)
	}
	return cfg
}
