// Package summarizer provides LLM-backed summarizers (Claude and OpenAI)
// with circuit breaker, retry and Prometheus instrumentation.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"smartnotes/internal/resilience/circuitbreaker"
	"smartnotes/internal/resilience/retry"
	"smartnotes/internal/utils/text"
)

// ErrCircuitOpen is returned while a provider's breaker is open.
var ErrCircuitOpen = errors.New("summarizer unavailable: circuit breaker open")

// completeFunc performs one provider call for prompt.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// llm holds what Claude and OpenAI share: the resilience wrappers, logging
// and metrics around a single provider call.
type llm struct {
	provider        string
	config          Config
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder SummaryMetricsRecorder
	complete        completeFunc
}

func (l *llm) summarize(ctx context.Context, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	var result string
	retryErr := retry.WithBackoff(ctx, l.retryConfig, func() error {
		out, err := circuitbreaker.Do(l.circuitBreaker, func() (string, error) {
			return l.doSummarize(ctx, input)
		})
		if err != nil {
			if circuitbreaker.Rejected(err) {
				slog.WarnContext(ctx, "summarizer circuit breaker open, request rejected",
					slog.String("service", l.circuitBreaker.Name()),
					slog.String("state", l.circuitBreaker.State().String()))
				return ErrCircuitOpen
			}
			return err
		}
		result = out
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("%s summarize failed: %w", l.provider, retryErr)
	}
	return result, nil
}

// doSummarize performs one call without retry or circuit breaker.
func (l *llm) doSummarize(ctx context.Context, input string) (string, error) {
	requestID := uuid.New().String()

	truncated := text.Truncate(input, maxInputChars)
	if truncated != input {
		slog.WarnContext(ctx, "note truncated for summarizer",
			slog.String("request_id", requestID),
			slog.String("provider", l.provider),
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", maxInputChars))
	}

	slog.InfoContext(ctx, "Starting summarization",
		slog.String("request_id", requestID),
		slog.String("provider", l.provider),
		slog.Int("input_length", text.CountRunes(truncated)),
		slog.Int("character_limit", l.config.CharacterLimit))

	start := time.Now()
	summary, err := l.complete(ctx, buildPrompt(l.config.CharacterLimit, truncated))
	duration := time.Since(start)
	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("request_id", requestID),
			slog.String("provider", l.provider),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", err
	}

	length := text.CountRunes(summary)
	slog.InfoContext(ctx, "Summarization completed",
		slog.String("request_id", requestID),
		slog.String("provider", l.provider),
		slog.Int("summary_length", length),
		slog.Bool("within_limit", length <= l.config.CharacterLimit),
		slog.Duration("duration", duration))

	recordSummary(l.metricsRecorder, length, l.config.CharacterLimit, duration)
	return summary, nil
}

// Breaker exposes the provider's circuit breaker for health reporting.
func (l *llm) Breaker() *circuitbreaker.CircuitBreaker {
	return l.circuitBreaker
}
