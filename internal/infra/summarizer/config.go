package summarizer

import (
	"fmt"
	"log/slog"
	"time"

	env "smartnotes/pkg/config"
)

const (
	minCharLimit     = 100
	maxCharLimit     = 5000
	defaultCharLimit = 600

	// maxInputChars bounds the text placed in the prompt.
	maxInputChars = 10000
)

// Config holds the settings shared by the LLM summarizers.
type Config struct {
	// CharacterLimit is the requested maximum summary length in characters.
	// SUMMARIZER_CHAR_LIMIT, range 100-5000, default 600.
	CharacterLimit int

	// Model is the provider model identifier.
	Model string

	// MaxTokens bounds the response size.
	MaxTokens int

	// Timeout bounds one Summarize call including retries.
	Timeout time.Duration

	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string
}

// ValidateCharacterLimit reports whether limit is within 100-5000.
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := ValidateCharacterLimit(c.CharacterLimit); err != nil {
		return fmt.Errorf("invalid character limit: %w", err)
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// LoadConfig reads SUMMARIZER_CHAR_LIMIT, SUMMARIZER_MODEL, SUMMARIZER_TIMEOUT
// and SUMMARIZER_BASE_URL. An out-of-range character limit falls back to the
// default with a warning.
func LoadConfig(defaultModel string) Config {
	limit := env.GetEnvInt("SUMMARIZER_CHAR_LIMIT", defaultCharLimit)
	if err := ValidateCharacterLimit(limit); err != nil {
		slog.Warn("SUMMARIZER_CHAR_LIMIT out of valid range, using default",
			slog.Int("value", limit),
			slog.Int("default", defaultCharLimit),
			slog.String("error", err.Error()))
		limit = defaultCharLimit
	}

	return Config{
		CharacterLimit: limit,
		Model:          env.GetEnvString("SUMMARIZER_MODEL", defaultModel),
		MaxTokens:      1024,
		Timeout:        env.GetEnvDuration("SUMMARIZER_TIMEOUT", 60*time.Second),
		BaseURL:        env.GetEnvString("SUMMARIZER_BASE_URL", ""),
	}
}

// buildPrompt asks for a plain-prose summary of a personal note.
func buildPrompt(limit int, note string) string {
	return fmt.Sprintf("Summarize the following note in plain English prose in at most %d characters. "+
		"Reply with the summary only.\n\n%s", limit, note)
}
