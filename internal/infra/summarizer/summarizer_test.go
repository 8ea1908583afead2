package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartnotes/internal/resilience/retry"
)

type fakeRecorder struct {
	mu         sync.Mutex
	lengths    []int
	exceeded   int
	compliance []bool
	durations  int
}

func (f *fakeRecorder) RecordLength(length int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lengths = append(f.lengths, length)
}

func (f *fakeRecorder) RecordLimitExceeded() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exceeded++
}

func (f *fakeRecorder) RecordCompliance(withinLimit bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compliance = append(f.compliance, withinLimit)
}

func (f *fakeRecorder) RecordDuration(time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations++
}

var fastRetry = retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

func testConfig(baseURL string, limit int) Config {
	return Config{CharacterLimit: limit, Model: "test-model", MaxTokens: 256, Timeout: 5 * time.Second, BaseURL: baseURL}
}

func TestOpenAI_Summarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Contains(t, body.Messages[0].Content, "at most 120 characters")
		assert.Contains(t, body.Messages[0].Content, "Buy milk tomorrow")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Buy milk."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", testConfig(srv.URL, 120))
	rec := &fakeRecorder{}
	o.metricsRecorder = rec
	o.retryConfig = fastRetry

	got, err := o.Summarize(context.Background(), "Buy milk tomorrow")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk.", got)
	assert.Equal(t, []int{9}, rec.lengths)
	assert.Equal(t, []bool{true}, rec.compliance)
	assert.Zero(t, rec.exceeded)
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", testConfig(srv.URL, 120))
	o.metricsRecorder = &fakeRecorder{}
	o.retryConfig = fastRetry

	_, err := o.Summarize(context.Background(), "note")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestOpenAI_ServerErrorRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", testConfig(srv.URL, 120))
	o.metricsRecorder = &fakeRecorder{}
	o.retryConfig = fastRetry

	_, err := o.Summarize(context.Background(), "note")
	require.Error(t, err)

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestClaude_Summarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"test-model",` +
			`"content":[{"type":"text","text":"` + strings.Repeat("a", 150) + `"}],` +
			`"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":20}}`))
	}))
	defer srv.Close()

	c := NewClaude("sk-ant", testConfig(srv.URL, 100), option.WithMaxRetries(0))
	rec := &fakeRecorder{}
	c.metricsRecorder = rec
	c.retryConfig = fastRetry

	got, err := c.Summarize(context.Background(), "Planning notes for the launch")
	require.NoError(t, err)
	assert.Len(t, got, 150)
	assert.Equal(t, 1, rec.exceeded)
	assert.Equal(t, []bool{false}, rec.compliance)
}

func TestClaude_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	c := NewClaude("sk-ant", testConfig(srv.URL, 100), option.WithMaxRetries(0))
	c.metricsRecorder = &fakeRecorder{}
	c.retryConfig = fastRetry

	_, err := c.Summarize(context.Background(), "note")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(300, "note body")
	assert.Contains(t, p, "at most 300 characters")
	assert.True(t, strings.HasSuffix(p, "note body"))
}
