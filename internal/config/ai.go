// Package config loads the configuration of the AI and grammar integrations.
package config

import (
	"fmt"
	"time"

	env "smartnotes/pkg/config"
)

// Summary providers selectable through AI_SUMMARY_PROVIDER.
const (
	ProviderHuggingFace = "huggingface"
	ProviderClaude      = "claude"
	ProviderOpenAI      = "openai"
	// ProviderLocal skips remote summarization and uses the local digest engine.
	ProviderLocal = "local"
)

// AIConfig holds configuration for the AI summary and tagging integration.
type AIConfig struct {
	// Enabled turns the remote steps on. When false, summaries and tags come
	// from the local digest engine only. Default: true
	Enabled bool

	// Provider picks the remote summarizer. Default: "huggingface"
	Provider string

	HuggingFace HuggingFaceConfig

	// AnthropicAPIKey is required when Provider is "claude".
	AnthropicAPIKey string
	// OpenAIAPIKey is required when Provider is "openai".
	OpenAIAPIKey string

	Summary SummaryConfig
	Tagging TaggingConfig

	// CircuitBreaker for the hosted inference calls.
	CircuitBreaker CircuitBreakerConfig
}

// HuggingFaceConfig points at the hosted inference API.
type HuggingFaceConfig struct {
	// BaseURL is the models endpoint; the model name is appended.
	BaseURL string
	// Token is sent as a bearer token when set. Anonymous calls are rate limited.
	Token        string
	SummaryModel string
	LabelModel   string
}

// SummaryConfig controls remote summarization.
type SummaryConfig struct {
	// MinInputLength rejects shorter texts (runes, after trimming). Default: 50
	MinInputLength int
	// InputLimit caps the text sent upstream (runes). Default: 1024
	InputLimit int
	// Timeout for one summarization call. Default: 30s
	Timeout time.Duration
}

// TaggingConfig controls zero-shot tagging.
type TaggingConfig struct {
	// MinInputLength rejects shorter texts (runes, after trimming). Default: 10
	MinInputLength int
	// InputLimit caps the text sent upstream (runes). Default: 500
	InputLimit int
	// MinScore keeps labels scoring strictly above it. Default: 0.3
	MinScore float64
	// MaxLabels keeps at most this many remote labels. Default: 5
	MaxLabels int
	// Timeout for one classification call. Default: 20s
	Timeout time.Duration
}

// CircuitBreakerConfig for AI service resilience.
type CircuitBreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// LoadAIConfig loads AI configuration from environment variables and validates it.
func LoadAIConfig() (*AIConfig, error) {
	cfg := &AIConfig{
		Enabled:  env.GetEnvBool("AI_ENABLED", true),
		Provider: env.GetEnvString("AI_SUMMARY_PROVIDER", ProviderHuggingFace),
		HuggingFace: HuggingFaceConfig{
			BaseURL:      env.GetEnvString("HUGGINGFACE_BASE_URL", "https://api-inference.huggingface.co/models"),
			Token:        env.GetEnvString("HUGGINGFACE_API_TOKEN", ""),
			SummaryModel: env.GetEnvString("HUGGINGFACE_SUMMARY_MODEL", "facebook/bart-large-cnn"),
			LabelModel:   env.GetEnvString("HUGGINGFACE_LABEL_MODEL", "facebook/bart-large-mnli"),
		},
		AnthropicAPIKey: env.GetEnvString("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    env.GetEnvString("OPENAI_API_KEY", ""),
		Summary: SummaryConfig{
			MinInputLength: env.GetEnvInt("AI_SUMMARY_MIN_LENGTH", 50),
			InputLimit:     env.GetEnvInt("AI_SUMMARY_INPUT_LIMIT", 1024),
			Timeout:        env.GetEnvDuration("AI_TIMEOUT_SUMMARY", 30*time.Second),
		},
		Tagging: TaggingConfig{
			MinInputLength: env.GetEnvInt("AI_TAGS_MIN_LENGTH", 10),
			InputLimit:     env.GetEnvInt("AI_TAGS_INPUT_LIMIT", 500),
			MinScore:       env.GetEnvFloat("AI_TAGS_MIN_SCORE", 0.3),
			MaxLabels:      env.GetEnvInt("AI_TAGS_MAX_LABELS", 5),
			Timeout:        env.GetEnvDuration("AI_TIMEOUT_TAGS", 20*time.Second),
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      uint32(env.GetEnvInt("AI_CB_MAX_REQUESTS", 3)),
			Interval:         env.GetEnvDuration("AI_CB_INTERVAL", 30*time.Second),
			Timeout:          env.GetEnvDuration("AI_CB_TIMEOUT", 30*time.Second),
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *AIConfig) Validate() error {
	switch c.Provider {
	case ProviderHuggingFace:
		if c.HuggingFace.BaseURL == "" {
			return fmt.Errorf("HUGGINGFACE_BASE_URL cannot be empty")
		}
		if c.HuggingFace.SummaryModel == "" {
			return fmt.Errorf("HUGGINGFACE_SUMMARY_MODEL cannot be empty")
		}
	case ProviderClaude:
		if c.Enabled && c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderOpenAI:
		if c.Enabled && c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderLocal:
	default:
		return fmt.Errorf("AI_SUMMARY_PROVIDER %q is not supported", c.Provider)
	}

	if c.HuggingFace.LabelModel == "" {
		return fmt.Errorf("HUGGINGFACE_LABEL_MODEL cannot be empty")
	}
	if c.Summary.MinInputLength < 0 || c.Summary.InputLimit <= 0 {
		return fmt.Errorf("AI_SUMMARY_MIN_LENGTH must be >= 0 and AI_SUMMARY_INPUT_LIMIT positive")
	}
	if c.Tagging.MinInputLength < 0 || c.Tagging.InputLimit <= 0 {
		return fmt.Errorf("AI_TAGS_MIN_LENGTH must be >= 0 and AI_TAGS_INPUT_LIMIT positive")
	}
	if c.Tagging.MinScore < 0 || c.Tagging.MinScore >= 1 {
		return fmt.Errorf("AI_TAGS_MIN_SCORE must be in [0, 1)")
	}
	if c.Tagging.MaxLabels <= 0 {
		return fmt.Errorf("AI_TAGS_MAX_LABELS must be positive")
	}
	if c.Summary.Timeout <= 0 || c.Tagging.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SUMMARY and AI_TIMEOUT_TAGS must be positive")
	}
	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("AI_CB_MAX_REQUESTS must be positive")
	}
	if c.CircuitBreaker.Interval <= 0 {
		return fmt.Errorf("AI_CB_INTERVAL must be positive")
	}
	if c.CircuitBreaker.Timeout <= 0 {
		return fmt.Errorf("AI_CB_TIMEOUT must be positive")
	}
	return nil
}
