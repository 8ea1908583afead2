// Package circuitbreaker puts github.com/sony/gobreaker in front of the
// outbound clients, one named profile per remote service.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config trips the breaker on a failure ratio once MinRequests have been
// seen in the current Interval.
type Config struct {
	Name             string
	MaxRequests      uint32 // trial calls while half-open
	Interval         time.Duration
	Timeout          time.Duration // open -> half-open
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// HuggingFaceConfig reopens quickly: cold models answer 503 while loading.
func HuggingFaceConfig() Config {
	c := DefaultConfig("huggingface-api")
	c.MaxRequests = 2
	c.Timeout = 30 * time.Second
	return c
}

func LanguageToolConfig() Config {
	c := DefaultConfig("languagetool-api")
	c.Interval = time.Minute
	c.FailureThreshold = 0.7
	c.MinRequests = 10
	return c
}

func ClaudeAPIConfig() Config { return DefaultConfig("claude-api") }
func OpenAIAPIConfig() Config { return DefaultConfig("openai-api") }

// ContentFetchConfig trips late and stays open long; arbitrary sites fail
// for unrelated reasons.
func ContentFetchConfig() Config {
	c := DefaultConfig("content-fetch")
	c.Interval = time.Minute
	c.Timeout = 5 * time.Minute
	c.FailureThreshold = 0.8
	return c
}

type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{
		name: cfg.Name,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.Requests >= cfg.MinRequests &&
					float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

// Do calls fn unless the breaker rejects it, in which case the gobreaker
// error is returned and fn never runs.
func Do[T any](b *CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// Rejected reports whether err came from an open or saturated half-open breaker.
func Rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func (b *CircuitBreaker) State() gobreaker.State { return b.cb.State() }
func (b *CircuitBreaker) Name() string           { return b.name }
func (b *CircuitBreaker) IsOpen() bool           { return b.cb.State() == gobreaker.StateOpen }
