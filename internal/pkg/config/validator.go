package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard five-field form only.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return errors.New("cron schedule is empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("cron schedule %q: %w", schedule, err)
	}
	return nil
}

func ValidateTimezone(name string) error {
	if name == "" {
		return errors.New("timezone is empty")
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("timezone %q: %w", name, err)
	}
	return nil
}

// IntRange returns a validator accepting min <= v <= max.
func IntRange(min, max int) func(int) error {
	return func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("%d outside [%d, %d]", v, min, max)
		}
		return nil
	}
}

// DurationRange returns a validator accepting min <= d <= max.
func DurationRange(min, max time.Duration) func(time.Duration) error {
	return func(d time.Duration) error {
		if d < min || d > max {
			return fmt.Errorf("%v outside [%v, %v]", d, min, max)
		}
		return nil
	}
}
