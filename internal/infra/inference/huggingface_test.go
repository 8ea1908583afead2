package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartnotes/internal/config"
	"smartnotes/internal/resilience/retry"
	"smartnotes/internal/usecase/ai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HuggingFace, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	h := NewHuggingFace(config.HuggingFaceConfig{
		BaseURL:      srv.URL + "/models/",
		Token:        "hf_test",
		SummaryModel: "facebook/bart-large-cnn",
		LabelModel:   "facebook/bart-large-mnli",
	}, config.CircuitBreakerConfig{}, srv.Client())
	h.retryConfig = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
	return h, srv
}

func TestHuggingFace_Summarize(t *testing.T) {
	h, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/facebook/bart-large-cnn", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req summaryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "long text", req.Inputs)
		assert.Equal(t, 150, req.Parameters.MaxLength)
		assert.Equal(t, 30, req.Parameters.MinLength)
		assert.False(t, req.Parameters.DoSample)
		assert.True(t, req.Options.WaitForModel)

		_, _ = w.Write([]byte(`[{"summary_text":"  A short summary.  "}]`))
	})

	got, err := h.Summarize(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)
}

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"array summary_text", `[{"summary_text":"s"}]`, "s", false},
		{"array generated_text", `[{"generated_text":"g"}]`, "g", false},
		{"object", `{"summary_text":"o"}`, "o", false},
		{"empty array", `[]`, "", true},
		{"blank text", `[{"summary_text":"  "}]`, "", true},
		{"error object", `{"error":"Model is loading"}`, "", true},
		{"not json", `<html>`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSummary([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHuggingFace_Classify(t *testing.T) {
	h, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/facebook/bart-large-mnli", r.URL.Path)

		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"work", "travel", "food"}, req.Parameters.CandidateLabels)
		assert.True(t, req.Parameters.MultiLabel)

		_, _ = w.Write([]byte(`{"sequence":"x","labels":["travel","work","food"],"scores":[0.2,0.9,0.05]}`))
	})

	got, err := h.Classify(context.Background(), "x", []string{"work", "travel", "food"})
	require.NoError(t, err)
	assert.Equal(t, []ai.Label{
		{Name: "work", Score: 0.9},
		{Name: "travel", Score: 0.2},
		{Name: "food", Score: 0.05},
	}, got)
}

func TestHuggingFace_Classify_PairShape(t *testing.T) {
	h, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"food","score":0.4},{"label":"work","score":0.7}]`))
	})

	got, err := h.Classify(context.Background(), "x", []string{"work", "food"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "work", got[0].Name)
	assert.Equal(t, "food", got[1].Name)
}

func TestHuggingFace_Classify_NoCandidates(t *testing.T) {
	var calls int32
	h, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	got, err := h.Classify(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestParseLabels_Mismatch(t *testing.T) {
	_, err := parseLabels([]byte(`{"labels":["a","b"],"scores":[0.1]}`))
	assert.Error(t, err)
}

func TestHuggingFace_RetriesLoadingModel(t *testing.T) {
	var calls int32
	h, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model facebook/bart-large-cnn is currently loading"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"summary_text":"ready"}]`))
	})

	got, err := h.Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "ready", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHuggingFace_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	h, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad input"}`))
	})

	_, err := h.Summarize(context.Background(), "text")
	require.Error(t, err)

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "bad input")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHuggingFace_CircuitOpens(t *testing.T) {
	var calls int32
	h, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})

	// HuggingFaceConfig trips after 5 requests at >= 60% failures
	for i := 0; i < 5; i++ {
		_, _ = h.Summarize(context.Background(), "text")
	}
	before := atomic.LoadInt32(&calls)

	_, err := h.Summarize(context.Background(), "text")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, before, atomic.LoadInt32(&calls))
}

func TestHuggingFace_NoTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"summary_text":"anon"}]`))
	}))
	defer srv.Close()

	h := NewHuggingFace(config.HuggingFaceConfig{BaseURL: srv.URL, SummaryModel: "m", LabelModel: "l"},
		config.CircuitBreakerConfig{}, nil)
	got, err := h.Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "anon", got)
}
