// Package inference calls the hosted Hugging Face inference API for
// abstractive summaries (BART CNN) and zero-shot labels (BART MNLI).
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"smartnotes/internal/config"
	"smartnotes/internal/resilience/circuitbreaker"
	"smartnotes/internal/resilience/retry"
	"smartnotes/internal/usecase/ai"
)

var (
	inferenceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_requests_total",
			Help: "Total number of hosted inference requests",
		},
		[]string{"task", "status"},
	)

	inferenceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_request_duration_seconds",
			Help:    "Hosted inference request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"task"},
	)
)

// Summary generation parameters for the BART CNN model.
const (
	summaryMaxLength = 150
	summaryMinLength = 30
)

// maxErrorBody bounds how much of an error response is kept in the error message.
const maxErrorBody = 512

var (
	// ErrCircuitOpen is returned while the inference breaker is open.
	ErrCircuitOpen = errors.New("inference API temporarily disabled (circuit breaker open)")
	// ErrEmptyResponse is returned when the model answers without a usable result.
	ErrEmptyResponse = errors.New("inference API returned no result")
)

// HuggingFace implements ai.Summarizer and ai.Labeler over the hosted inference API.
type HuggingFace struct {
	httpClient     *http.Client
	cfg            config.HuggingFaceConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewHuggingFace creates a client. A nil httpClient uses one with a 30s timeout.
func NewHuggingFace(cfg config.HuggingFaceConfig, cb config.CircuitBreakerConfig, httpClient *http.Client) *HuggingFace {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	breaker := circuitbreaker.HuggingFaceConfig()
	if cb.MaxRequests > 0 {
		breaker.MaxRequests = cb.MaxRequests
		breaker.Interval = cb.Interval
		breaker.Timeout = cb.Timeout
		breaker.FailureThreshold = cb.FailureThreshold
		breaker.MinRequests = cb.MinRequests
	}

	return &HuggingFace{
		httpClient:     httpClient,
		cfg:            cfg,
		circuitBreaker: circuitbreaker.New(breaker),
		retryConfig:    retry.InferenceConfig(),
	}
}

type summaryRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters summaryParameters `json:"parameters"`
	Options    requestOptions    `json:"options"`
}

type summaryParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type summaryItem struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

func (s summaryItem) text() string {
	if s.SummaryText != "" {
		return s.SummaryText
	}
	return s.GeneratedText
}

type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
	Options    requestOptions     `json:"options"`
}

type classifyParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Summarize returns the model's summary of text. The caller is expected to
// have stripped markup and capped the input length.
func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	body := summaryRequest{
		Inputs: text,
		Parameters: summaryParameters{
			MaxLength: summaryMaxLength,
			MinLength: summaryMinLength,
			DoSample:  false,
		},
		Options: requestOptions{WaitForModel: true},
	}

	raw, err := h.call(ctx, "summarization", h.cfg.SummaryModel, body)
	if err != nil {
		return "", err
	}

	summary, err := parseSummary(raw)
	if err != nil {
		return "", err
	}
	return summary, nil
}

// Classify scores candidates against text with multi-label zero-shot
// classification and returns them highest score first.
func (h *HuggingFace) Classify(ctx context.Context, text string, candidates []string) ([]ai.Label, error) {
	if len(candidates) == 0 {
		return []ai.Label{}, nil
	}

	body := classifyRequest{
		Inputs: text,
		Parameters: classifyParameters{
			CandidateLabels: candidates,
			MultiLabel:      true,
		},
		Options: requestOptions{WaitForModel: true},
	}

	raw, err := h.call(ctx, "zero-shot-classification", h.cfg.LabelModel, body)
	if err != nil {
		return nil, err
	}
	return parseLabels(raw)
}

// call posts body to model through the retry loop and the circuit breaker.
func (h *HuggingFace) call(ctx context.Context, task, model string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", task, err)
	}

	requestID := uuid.New().String()
	var out []byte
	retryErr := retry.WithBackoff(ctx, h.retryConfig, func() error {
		res, err := circuitbreaker.Do(h.circuitBreaker, func() ([]byte, error) {
			return h.post(ctx, requestID, task, model, payload)
		})
		if err != nil {
			if circuitbreaker.Rejected(err) {
				slog.WarnContext(ctx, "inference circuit breaker open, request rejected",
					slog.String("request_id", requestID),
					slog.String("task", task),
					slog.String("state", h.circuitBreaker.State().String()))
				return ErrCircuitOpen
			}
			return err
		}
		out = res
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("%s failed: %w", task, retryErr)
	}
	return out, nil
}

// post performs one HTTP round trip.
func (h *HuggingFace) post(ctx context.Context, requestID, task, model string, payload []byte) ([]byte, error) {
	endpoint := strings.TrimRight(h.cfg.BaseURL, "/") + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}

	slog.DebugContext(ctx, "inference request",
		slog.String("request_id", requestID),
		slog.String("task", task),
		slog.String("model", model),
		slog.Int("input_bytes", len(payload)))

	start := time.Now()
	resp, err := h.httpClient.Do(req)
	duration := time.Since(start)
	inferenceRequestDuration.WithLabelValues(task).Observe(duration.Seconds())
	if err != nil {
		inferenceRequestsTotal.WithLabelValues(task, "error").Inc()
		slog.WarnContext(ctx, "inference request failed",
			slog.String("request_id", requestID),
			slog.String("task", task),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		inferenceRequestsTotal.WithLabelValues(task, "error").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		inferenceRequestsTotal.WithLabelValues(task, "http_error").Inc()
		msg := string(data)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		slog.WarnContext(ctx, "inference API returned error status",
			slog.String("request_id", requestID),
			slog.String("task", task),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", duration))
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: msg}
	}

	inferenceRequestsTotal.WithLabelValues(task, "success").Inc()
	slog.InfoContext(ctx, "inference request completed",
		slog.String("request_id", requestID),
		slog.String("task", task),
		slog.Duration("duration", duration))
	return data, nil
}

// parseSummary accepts either [{"summary_text": ...}] or a bare object.
func parseSummary(raw []byte) (string, error) {
	var items []summaryItem
	if err := json.Unmarshal(raw, &items); err == nil {
		if len(items) == 0 {
			return "", ErrEmptyResponse
		}
		if s := strings.TrimSpace(items[0].text()); s != "" {
			return s, nil
		}
		return "", ErrEmptyResponse
	}

	var item summaryItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return "", fmt.Errorf("decode summary: %w", err)
	}
	if s := strings.TrimSpace(item.text()); s != "" {
		return s, nil
	}
	return "", ErrEmptyResponse
}

// parseLabels accepts the classic {"labels": [...], "scores": [...]} shape
// and the newer [{"label": ..., "score": ...}] shape.
func parseLabels(raw []byte) ([]ai.Label, error) {
	var labels []ai.Label

	var pairs []labelScore
	if err := json.Unmarshal(raw, &pairs); err == nil {
		labels = make([]ai.Label, 0, len(pairs))
		for _, p := range pairs {
			labels = append(labels, ai.Label{Name: p.Label, Score: p.Score})
		}
	} else {
		var res classifyResponse
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, fmt.Errorf("decode labels: %w", err)
		}
		if len(res.Labels) != len(res.Scores) {
			return nil, fmt.Errorf("decode labels: %d labels but %d scores", len(res.Labels), len(res.Scores))
		}
		labels = make([]ai.Label, 0, len(res.Labels))
		for i, name := range res.Labels {
			labels = append(labels, ai.Label{Name: name, Score: res.Scores[i]})
		}
	}

	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })
	return labels, nil
}

// Breaker exposes the inference circuit breaker for health reporting.
func (h *HuggingFace) Breaker() *circuitbreaker.CircuitBreaker {
	return h.circuitBreaker
}
