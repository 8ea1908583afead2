package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"smartnotes/internal/resilience/circuitbreaker"
	"smartnotes/internal/resilience/retry"
)

// DefaultOpenAIModel is used when SUMMARIZER_MODEL is not set.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI implements ai.Summarizer with the Chat Completions API.
type OpenAI struct {
	llm
	client *openai.Client
}

// NewOpenAI creates an OpenAI summarizer.
func NewOpenAI(apiKey string, cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	o := &OpenAI{client: openai.NewClientWithConfig(clientCfg)}
	o.llm = llm{
		provider:        "openai",
		config:          cfg,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		metricsRecorder: NewPrometheusSummaryMetrics(),
		complete:        o.complete,
	}

	slog.Info("Initialized OpenAI summarizer",
		slog.Int("character_limit", cfg.CharacterLimit),
		slog.String("model", cfg.Model))
	return o
}

// Summarize returns the model's summary of note.
func (o *OpenAI) Summarize(ctx context.Context, note string) (string, error) {
	return o.summarize(ctx, note)
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
			return "", fmt.Errorf("openai api error: %w",
				&retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message})
		}
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
