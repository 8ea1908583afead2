package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"smartnotes/internal/resilience/circuitbreaker"
	"smartnotes/internal/resilience/retry"
)

// DefaultClaudeModel is used when SUMMARIZER_MODEL is not set.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude implements ai.Summarizer with Anthropic's Messages API.
type Claude struct {
	llm
	client anthropic.Client
}

// NewClaude creates a Claude summarizer. Extra request options are passed to
// the SDK client.
func NewClaude(apiKey string, cfg Config, opts ...option.RequestOption) *Claude {
	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	c := &Claude{client: anthropic.NewClient(clientOpts...)}
	c.llm = llm{
		provider:        "claude",
		config:          cfg,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		metricsRecorder: NewPrometheusSummaryMetrics(),
		complete:        c.complete,
	}

	slog.Info("Initialized Claude summarizer",
		slog.Int("character_limit", cfg.CharacterLimit),
		slog.String("model", cfg.Model))
	return c
}

// Summarize returns Claude's summary of note.
func (c *Claude) Summarize(ctx context.Context, note string) (string, error) {
	return c.summarize(ctx, note)
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w",
				&retry.HTTPError{StatusCode: apiErr.StatusCode, Message: err.Error()})
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}

	block, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}
	return block.Text, nil
}
