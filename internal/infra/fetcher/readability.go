package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"smartnotes/internal/resilience/circuitbreaker"
	"smartnotes/internal/resilience/retry"
	"smartnotes/internal/usecase/note"
	"smartnotes/internal/utils/text"
)

// ErrCircuitOpen is returned while the content-fetch breaker is open.
var ErrCircuitOpen = errors.New("content fetching temporarily disabled (circuit breaker open)")

// ReadabilityFetcher implements note.ContentFetcher using go-shiori/go-readability.
//
// Every URL, including each redirect target, passes SSRF validation before a
// connection is made. Requests run through the content-fetch circuit breaker
// and are retried on transient failures.
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         ContentFetchConfig
}

// NewReadabilityFetcher creates a new ReadabilityFetcher with the given configuration.
//
// Example:
//
//	fetcher := NewReadabilityFetcher(DefaultConfig())
//	page, err := fetcher.Fetch(ctx, "https://example.com/article")
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	fetcher := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		retryConfig:    retry.ContentFetchConfig(),
		config:         config,
	}

	fetcher.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= fetcher.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", note.ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.Context(), req.URL.String(), fetcher.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return fetcher
}

// Fetch downloads urlStr and extracts its readable content.
// This method implements the note.ContentFetcher interface.
func (f *ReadabilityFetcher) Fetch(ctx context.Context, urlStr string) (*note.Page, error) {
	if err := validateURL(ctx, urlStr, f.config.DenyPrivateIPs); err != nil {
		return nil, err
	}

	var page *note.Page
	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		out, err := circuitbreaker.Do(f.circuitBreaker, func() (*note.Page, error) {
			return f.doFetch(ctx, urlStr)
		})
		if circuitbreaker.Rejected(err) {
			return ErrCircuitOpen
		}
		if err != nil {
			return err
		}
		page = out
		return nil
	})
	if err != nil {
		slog.Warn("content fetch failed",
			slog.String("url", urlStr),
			slog.Any("error", err))
		return nil, err
	}

	slog.Debug("content fetched",
		slog.String("url", page.URL),
		slog.String("title", page.Title),
		slog.Int("text_length", text.CountRunes(page.Text)))
	return page, nil
}

// doFetch performs a single HTTP request and the Readability extraction.
func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (*note.Page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", note.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: request exceeded %v", note.ErrFetchTimeout, f.config.Timeout)
		}
		// Redirect validation errors come back wrapped in *url.Error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) && (errors.Is(urlErr.Err, note.ErrTooManyRedirects) ||
			errors.Is(urlErr.Err, note.ErrPrivateIP) || errors.Is(urlErr.Err, note.ErrInvalidURL)) {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response size exceeds limit %d bytes",
			note.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// The final URL may differ from urlStr after redirects.
	pageURL, _ := url.Parse(urlStr)
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", note.ErrReadabilityFailed, err)
	}

	body := strings.TrimSpace(article.TextContent)
	if body == "" {
		body = text.StripHTML(article.Content)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: no readable content found", note.ErrReadabilityFailed)
	}

	page := &note.Page{
		Title:    strings.TrimSpace(article.Title),
		SiteName: strings.TrimSpace(article.SiteName),
		Text:     body,
	}
	if pageURL != nil {
		page.URL = pageURL.String()
	}
	return page, nil
}

// Breaker exposes the fetch circuit breaker for health reporting.
func (f *ReadabilityFetcher) Breaker() *circuitbreaker.CircuitBreaker {
	return f.circuitBreaker
}
