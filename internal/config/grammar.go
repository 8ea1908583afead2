package config

import (
	"fmt"
	"time"

	env "smartnotes/pkg/config"
)

// GrammarConfig holds configuration for the LanguageTool integration.
type GrammarConfig struct {
	// Enabled turns grammar checking on. When false every check returns no matches.
	Enabled bool
	// URL of the /v2/check endpoint.
	URL string
	// Language sent with every check. Default: "en-US"
	Language string
	// RatePerSecond and Burst bound outbound calls. The public API allows
	// about 20 requests per minute per IP.
	RatePerSecond float64
	Burst         int
	// Timeout for one check, including the wait for a rate limiter token.
	Timeout time.Duration
	// DisabledRules are LanguageTool rule IDs never reported, e.g. WHITESPACE_RULE.
	DisabledRules []string
}

// LoadGrammarConfig loads grammar configuration from environment variables and validates it.
func LoadGrammarConfig() (*GrammarConfig, error) {
	cfg := &GrammarConfig{
		Enabled:       env.GetEnvBool("GRAMMAR_ENABLED", true),
		URL:           env.GetEnvString("LANGUAGETOOL_URL", "https://api.languagetool.org/v2/check"),
		Language:      env.GetEnvString("LANGUAGETOOL_LANGUAGE", "en-US"),
		RatePerSecond: env.GetEnvFloat("LANGUAGETOOL_RATE_PER_SECOND", 0.33),
		Burst:         env.GetEnvInt("LANGUAGETOOL_BURST", 3),
		Timeout:       env.GetEnvDuration("LANGUAGETOOL_TIMEOUT", 10*time.Second),
		DisabledRules: env.GetEnvStringList("LANGUAGETOOL_DISABLED_RULES", nil),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grammar configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *GrammarConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("LANGUAGETOOL_URL cannot be empty")
	}
	if c.Language == "" {
		return fmt.Errorf("LANGUAGETOOL_LANGUAGE cannot be empty")
	}
	if c.RatePerSecond <= 0 {
		return fmt.Errorf("LANGUAGETOOL_RATE_PER_SECOND must be positive")
	}
	if c.Burst <= 0 {
		return fmt.Errorf("LANGUAGETOOL_BURST must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("LANGUAGETOOL_TIMEOUT must be positive")
	}
	return nil
}
