// Package retry re-runs transient failures of the outbound clients with
// jittered exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config describes one backoff schedule. MaxAttempts includes the first
// call; each wait is min(previous*Multiplier, MaxDelay) plus up to
// JitterFraction of itself.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

// InferenceConfig waits out a cold Hugging Face model (503 while loading)
// without holding a request for more than a few seconds.
func InferenceConfig() Config {
	c := DefaultConfig()
	c.InitialDelay, c.MaxDelay, c.Multiplier = 500*time.Millisecond, 4*time.Second, 3
	return c
}

// GrammarConfig allows one quick retry; checks run while the user types.
func GrammarConfig() Config {
	c := DefaultConfig()
	c.MaxAttempts, c.InitialDelay, c.MaxDelay = 2, 250*time.Millisecond, time.Second
	return c
}

// AIAPIConfig serves the Claude and OpenAI summarizers.
func AIAPIConfig() Config {
	c := DefaultConfig()
	c.InitialDelay, c.MaxDelay = 2*time.Second, 10*time.Second
	return c
}

func ContentFetchConfig() Config {
	c := DefaultConfig()
	c.MaxDelay = 10 * time.Second
	return c
}

// WithBackoff runs fn until it returns nil or a non-retryable error, the
// attempts are used up, or ctx ends during a wait.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	wait := cfg.InitialDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("retry succeeded", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		slog.Warn("transient failure, backing off",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-t.C:
		}
		wait = addJitter(min(time.Duration(float64(wait)*cfg.Multiplier), cfg.MaxDelay), cfg.JitterFraction)
	}
}

var transientErrnos = []error{
	syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH,
}

// IsRetryable treats network timeouts, refused or reset connections, 5xx,
// 408 and 429 as transient. Context cancellation never is.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, e := range transientErrnos {
		if errors.Is(err, e) {
			return true
		}
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode
		return code >= 500 && code < 600 ||
			code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
	}
	return false
}

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string { return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message) }

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	// #nosec G404 -- jitter needs no cryptographic randomness
	return d + time.Duration(rand.Float64()*min(fraction, 1)*float64(d))
}
