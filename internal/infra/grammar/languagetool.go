// Package grammar implements grammar.Checker over the LanguageTool HTTP API.
package grammar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"smartnotes/internal/config"
	"smartnotes/internal/resilience/circuitbreaker"
	"smartnotes/internal/resilience/retry"
	"smartnotes/internal/usecase/grammar"
)

var grammarChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "grammar_checks_total",
		Help: "Total number of LanguageTool checks by outcome",
	},
	[]string{"status"},
)

// ErrCircuitOpen is returned while the LanguageTool breaker is open.
var ErrCircuitOpen = errors.New("grammar service temporarily disabled (circuit breaker open)")

// LanguageTool checks text with a LanguageTool /v2/check endpoint.
type LanguageTool struct {
	httpClient     *http.Client
	endpoint       string
	language       string
	disabledRules  string
	timeout        time.Duration
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewLanguageTool creates a checker from cfg. A nil httpClient uses one with
// the configured timeout.
func NewLanguageTool(cfg config.GrammarConfig, httpClient *http.Client) *LanguageTool {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &LanguageTool{
		httpClient:     httpClient,
		endpoint:       cfg.URL,
		language:       cfg.Language,
		disabledRules:  strings.Join(cfg.DisabledRules, ","),
		timeout:        cfg.Timeout,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		circuitBreaker: circuitbreaker.New(circuitbreaker.LanguageToolConfig()),
		retryConfig:    retry.GrammarConfig(),
	}
}

type checkResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		ShortMessage string `json:"shortMessage"`
		Offset       int    `json:"offset"`
		Length       int    `json:"length"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule struct {
			ID       string `json:"id"`
			Category struct {
				ID string `json:"id"`
			} `json:"category"`
		} `json:"rule"`
	} `json:"matches"`
}

// maxReplacements keeps the suggestion lists short.
const maxReplacements = 5

// Check implements grammar.Checker. It waits for a rate limiter token, so a
// burst of checks is spread out rather than rejected upstream.
func (lt *LanguageTool) Check(ctx context.Context, text string) ([]grammar.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, lt.timeout)
	defer cancel()

	if err := lt.limiter.Wait(ctx); err != nil {
		grammarChecksTotal.WithLabelValues("rate_limited").Inc()
		return nil, fmt.Errorf("grammar rate limit: %w", err)
	}

	var res *checkResponse
	err := retry.WithBackoff(ctx, lt.retryConfig, func() error {
		out, err := circuitbreaker.Do(lt.circuitBreaker, func() (*checkResponse, error) {
			return lt.post(ctx, text)
		})
		if err != nil {
			if circuitbreaker.Rejected(err) {
				return ErrCircuitOpen
			}
			return err
		}
		res = out
		return nil
	})
	if err != nil {
		grammarChecksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("languagetool check: %w", err)
	}
	grammarChecksTotal.WithLabelValues("success").Inc()

	matches := make([]grammar.Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		replacements := make([]string, 0, min(len(m.Replacements), maxReplacements))
		for i, r := range m.Replacements {
			if i == maxReplacements {
				break
			}
			replacements = append(replacements, r.Value)
		}
		matches = append(matches, grammar.Match{
			Message:      m.Message,
			ShortMessage: m.ShortMessage,
			Offset:       m.Offset,
			Length:       m.Length,
			Replacements: replacements,
			RuleID:       m.Rule.ID,
			Category:     m.Rule.Category.ID,
		})
	}
	return matches, nil
}

func (lt *LanguageTool) post(ctx context.Context, text string) (*checkResponse, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", lt.language)
	if lt.disabledRules != "" {
		form.Set("disabledRules", lt.disabledRules)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := lt.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var out checkResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	slog.DebugContext(ctx, "grammar check completed",
		slog.Int("matches", len(out.Matches)),
		slog.Duration("duration", time.Since(start)))
	return &out, nil
}

// Breaker exposes the LanguageTool circuit breaker for health reporting.
func (lt *LanguageTool) Breaker() *circuitbreaker.CircuitBreaker {
	return lt.circuitBreaker
}
