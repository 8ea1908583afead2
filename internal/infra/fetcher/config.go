package fetcher

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ContentFetchConfig bounds how web pages are clipped into notes.
type ContentFetchConfig struct {
	Timeout time.Duration
	// MaxBodySize is enforced on the bytes read, not on Content-Length.
	MaxBodySize int64
	// MaxRedirects counts hops; each target is validated like the first URL.
	MaxRedirects int
	// DenyPrivateIPs rejects loopback, private and link-local targets.
	DenyPrivateIPs bool
	UserAgent      string
}

const (
	minBodySize  = 1 << 10
	maxBodySize  = 100 << 20
	maxRedirects = 10
)

func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 << 20,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "SmartNotesClipper/1.0",
	}
}

func (c *ContentFetchConfig) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		errs = append(errs, fmt.Errorf("max body size must be within [%d, %d] bytes, got %d",
			minBodySize, maxBodySize, c.MaxBodySize))
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > maxRedirects {
		errs = append(errs, fmt.Errorf("max redirects must be within [0, %d], got %d", maxRedirects, c.MaxRedirects))
	}
	return errors.Join(errs...)
}

// LoadConfigFromEnv overlays the CONTENT_FETCH_* variables on the defaults.
// Unlike the worker settings, a malformed value is an error: clipping
// limits guard against SSRF and oversized pages.
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()
	fields := []struct {
		key string
		set func(string) error
	}{
		{"CONTENT_FETCH_TIMEOUT", func(v string) (err error) {
			cfg.Timeout, err = time.ParseDuration(v)
			return
		}},
		{"CONTENT_FETCH_MAX_BODY_SIZE", func(v string) (err error) {
			cfg.MaxBodySize, err = strconv.ParseInt(v, 10, 64)
			return
		}},
		{"CONTENT_FETCH_MAX_REDIRECTS", func(v string) (err error) {
			cfg.MaxRedirects, err = strconv.Atoi(v)
			return
		}},
		{"CONTENT_FETCH_DENY_PRIVATE_IPS", func(v string) (err error) {
			cfg.DenyPrivateIPs, err = strconv.ParseBool(v)
			return
		}},
		{"CONTENT_FETCH_USER_AGENT", func(v string) error {
			cfg.UserAgent = v
			return nil
		}},
	}
	for _, f := range fields {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		if err := f.set(v); err != nil {
			return cfg, fmt.Errorf("invalid %s=%q: %w", f.key, v, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("content fetch config: %w", err)
	}
	return cfg, nil
}
