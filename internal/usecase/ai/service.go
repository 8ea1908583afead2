// Package ai provides the note digest use cases: summaries and tags from a
// hosted model, with the local digest engine as the fallback.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"smartnotes/internal/digest"
	"smartnotes/internal/domain/entity"
	"smartnotes/internal/observability/logging"
	"smartnotes/internal/observability/metrics"
	"smartnotes/internal/observability/tracing"
	"smartnotes/internal/repository"
	"smartnotes/internal/usecase/note"
	"smartnotes/internal/utils/text"
)

var (
	// ErrTextTooShort is returned when the input is below the minimum length
	// for the requested operation.
	ErrTextTooShort = errors.New("text too short")
)

// Digest kinds used in metrics and logs.
const (
	kindSummary = "summary"
	kindTags    = "tags"
)

// Options tunes the service. Zero values are replaced by DefaultOptions.
type Options struct {
	// Enabled turns the remote steps on. When false the local engine is used directly.
	Enabled bool

	SummaryMinLength  int
	SummaryInputLimit int
	SummaryTimeout    time.Duration

	TagsMinLength  int
	TagsInputLimit int
	// MinLabelScore keeps remote labels scoring strictly above it.
	MinLabelScore float64
	MaxLabels     int
	TagsTimeout   time.Duration
}

// DefaultOptions returns the thresholds used by the hosted models.
func DefaultOptions() Options {
	return Options{
		Enabled:           true,
		SummaryMinLength:  50,
		SummaryInputLimit: 1024,
		SummaryTimeout:    30 * time.Second,
		TagsMinLength:     10,
		TagsInputLimit:    500,
		MinLabelScore:     0.3,
		MaxLabels:         5,
		TagsTimeout:       20 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SummaryMinLength <= 0 {
		o.SummaryMinLength = d.SummaryMinLength
	}
	if o.SummaryInputLimit <= 0 {
		o.SummaryInputLimit = d.SummaryInputLimit
	}
	if o.SummaryTimeout <= 0 {
		o.SummaryTimeout = d.SummaryTimeout
	}
	if o.TagsMinLength <= 0 {
		o.TagsMinLength = d.TagsMinLength
	}
	if o.TagsInputLimit <= 0 {
		o.TagsInputLimit = d.TagsInputLimit
	}
	if o.MinLabelScore <= 0 {
		o.MinLabelScore = d.MinLabelScore
	}
	if o.MaxLabels <= 0 {
		o.MaxLabels = d.MaxLabels
	}
	if o.TagsTimeout <= 0 {
		o.TagsTimeout = d.TagsTimeout
	}
	return o
}

// Service produces note summaries and tags.
//
// Remote failures never surface to the caller: the summary falls back to
// digest.Summarize and the tags degrade to the keyword tags.
type Service struct {
	summarizer Summarizer
	labeler    Labeler
	repo       repository.NoteRepository
	opts       Options
	now        func() time.Time
}

// NewService creates a new AI service.
//
// Parameters:
//   - summarizer: remote summarizer, or nil for local summaries only
//   - labeler: zero-shot classifier, or nil for keyword tags only
//   - repo: note repository used by Enrich and RefreshStale (may be nil for
//     callers that only digest raw text)
//   - opts: thresholds and feature flag
func NewService(summarizer Summarizer, labeler Labeler, repo repository.NoteRepository, opts Options) *Service {
	return &Service{
		summarizer: summarizer,
		labeler:    labeler,
		repo:       repo,
		opts:       opts.withDefaults(),
		now:        time.Now,
	}
}

// Summarize returns a summary of text, which may contain HTML.
//
// Returns ErrTextTooShort when the trimmed input is shorter than the
// configured minimum. The plain text is capped at the input limit once;
// the remote summarizer and, on any remote error or empty answer, the
// local extractive summary both work on that capped text.
func (s *Service) Summarize(ctx context.Context, input string) (SummaryResult, error) {
	if text.CountRunes(strings.TrimSpace(input)) < s.opts.SummaryMinLength {
		return SummaryResult{}, fmt.Errorf("%w: summary needs at least %d characters", ErrTextTooShort, s.opts.SummaryMinLength)
	}
	return s.summarize(ctx, text.StripHTML(input)), nil
}

func (s *Service) summarize(ctx context.Context, plain string) SummaryResult {
	start := time.Now()
	logger := logging.WithRequestID(ctx, slog.Default())
	input := text.Truncate(plain, s.opts.SummaryInputLimit)

	result := SummaryResult{Source: entity.SummarySourceLocal}
	if s.remoteSummaries() {
		if summary, err := s.remoteSummary(ctx, input); err != nil {
			logger.Warn("remote summary failed, using local digest",
				slog.Int("input_length", text.CountRunes(input)),
				slog.Any("error", err))
		} else {
			result = SummaryResult{Summary: summary, Source: entity.SummarySourceRemote}
		}
	}
	if result.Source == entity.SummarySourceLocal {
		result.Summary = digest.Summarize(input)
	}

	metrics.RecordDigest(kindSummary, result.Source, time.Since(start))
	return result
}

func (s *Service) remoteSummary(ctx context.Context, input string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "ai.summarize",
		attribute.Int("input_length", text.CountRunes(input)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.SummaryTimeout)
	defer cancel()

	summary, err := s.summarizer.Summarize(ctx, input)
	if err == nil && strings.TrimSpace(summary) == "" {
		err = errors.New("empty summary")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

// Tags returns tags for text, which may contain HTML.
//
// Returns ErrTextTooShort when the trimmed input is shorter than the
// configured minimum. Remote labels scoring above the threshold come first,
// followed by the local context and keyword tags; the union is capped at
// digest.MaxTags.
func (s *Service) Tags(ctx context.Context, input string) (TagsResult, error) {
	if text.CountRunes(strings.TrimSpace(input)) < s.opts.TagsMinLength {
		return TagsResult{}, fmt.Errorf("%w: tags need at least %d characters", ErrTextTooShort, s.opts.TagsMinLength)
	}
	return s.tags(ctx, text.StripHTML(input)), nil
}

func (s *Service) tags(ctx context.Context, plain string) TagsResult {
	start := time.Now()
	logger := logging.WithRequestID(ctx, slog.Default())

	var remote []string
	if s.remoteTags() {
		labels, err := s.remoteLabels(ctx, plain)
		if err != nil {
			logger.Warn("remote tagging failed, using keyword tags",
				slog.Int("input_length", text.CountRunes(plain)),
				slog.Any("error", err))
		}
		remote = labels
	}

	keywords := digest.ExtractTags(plain)
	result := TagsResult{
		Tags:     usableTags(digest.MergeTags(remote, keywords)),
		Remote:   remote,
		Keywords: keywords,
	}

	source := entity.SummarySourceLocal
	if len(remote) > 0 {
		source = entity.SummarySourceRemote
	}
	metrics.RecordDigest(kindTags, source, time.Since(start))
	return result
}

func (s *Service) remoteLabels(ctx context.Context, plain string) ([]string, error) {
	input := text.Truncate(plain, s.opts.TagsInputLimit)

	ctx, span := tracing.StartSpan(ctx, "ai.tags",
		attribute.Int("input_length", text.CountRunes(input)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.TagsTimeout)
	defer cancel()

	labels, err := s.labeler.Classify(ctx, input, digest.CandidateLabels())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })

	var out []string
	for _, l := range labels {
		if len(out) == s.opts.MaxLabels {
			break
		}
		if l.Score > s.opts.MinLabelScore {
			out = append(out, strings.ToLower(l.Name))
		}
	}
	span.SetAttributes(attribute.Int("labels", len(out)))
	return out, nil
}

// Enrich digests a stored note: the summary and the tags are produced
// concurrently from the note's plain text and saved on the note.
// Returns note.ErrInvalidNoteID or note.ErrNoteNotFound for bad IDs.
func (s *Service) Enrich(ctx context.Context, noteID int64) (*entity.Note, error) {
	if noteID <= 0 {
		return nil, note.ErrInvalidNoteID
	}
	n, err := s.repo.Get(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if n == nil {
		return nil, note.ErrNoteNotFound
	}

	if err := s.enrich(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// enrich fills in the digest fields of n and stores it. Notes too short for
// a remote summary get the local one; notes too short for tags keep theirs.
func (s *Service) enrich(ctx context.Context, n *entity.Note) error {
	plain := n.PlainText()

	var summary SummaryResult
	var tags TagsResult
	tagged := text.CountRunes(plain) >= s.opts.TagsMinLength

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if text.CountRunes(plain) < s.opts.SummaryMinLength {
			summary = SummaryResult{Summary: digest.Summarize(plain), Source: entity.SummarySourceLocal}
			return nil
		}
		summary = s.summarize(egCtx, plain)
		return nil
	})
	eg.Go(func() error {
		if tagged {
			tags = s.tags(egCtx, plain)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.now()
	n.AISummary = summary.Summary
	n.SummarySource = summary.Source
	// Fresh tags replace the old set; text too short to tag keeps it.
	if tagged {
		n.Tags = tags.Tags
	}
	// UpdatedAt is left alone: digesting is not an edit.
	n.DigestedAt = &now

	if err := s.repo.Update(ctx, n); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return note.ErrNoteNotFound
		}
		return fmt.Errorf("save digest: %w", err)
	}
	return nil
}

// RefreshStale digests up to limit notes that were never digested or were
// edited since, running at most parallelism enrichments at a time.
// Per-note failures are logged and counted; the returned error is only set
// when the stale notes cannot be listed or ctx ends.
func (s *Service) RefreshStale(ctx context.Context, limit, parallelism int) (RefreshReport, error) {
	runID := uuid.NewString()
	logger := slog.Default().With(slog.String("run_id", runID))
	start := time.Now()

	if parallelism < 1 {
		parallelism = 1
	}

	notes, err := s.repo.ListStale(ctx, limit)
	if err != nil {
		metrics.RecordRefreshRun(false)
		return RefreshReport{}, fmt.Errorf("list stale notes: %w", err)
	}

	var digested, failed, remote, fallbacks int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for _, n := range notes {
		eg.Go(func() error {
			if err := s.enrich(egCtx, n); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				atomic.AddInt64(&failed, 1)
				logger.Warn("digest refresh failed for note",
					slog.Int64("note_id", n.ID),
					slog.Any("error", err))
				return nil
			}
			atomic.AddInt64(&digested, 1)
			if n.SummarySource == entity.SummarySourceRemote {
				atomic.AddInt64(&remote, 1)
			} else {
				atomic.AddInt64(&fallbacks, 1)
			}
			return nil
		})
	}
	waitErr := eg.Wait()

	report := RefreshReport{
		Scanned:   len(notes),
		Digested:  int(digested),
		Failed:    int(failed),
		Remote:    int(remote),
		Fallbacks: int(fallbacks),
	}
	metrics.RecordRefreshRun(waitErr == nil)

	logger.Info("digest refresh finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("digested", report.Digested),
		slog.Int("failed", report.Failed),
		slog.Int("remote", report.Remote),
		slog.Int("fallbacks", report.Fallbacks),
		slog.Duration("duration", time.Since(start)))

	if waitErr != nil {
		return report, fmt.Errorf("refresh stale notes: %w", waitErr)
	}
	return report, nil
}

func (s *Service) remoteSummaries() bool {
	return s.opts.Enabled && s.summarizer != nil
}

func (s *Service) remoteTags() bool {
	return s.opts.Enabled && s.labeler != nil
}

// usableTags drops tags the note entity would reject.
func usableTags(tags []string) []string {
	out := tags[:0]
	for _, tag := range tags {
		if tag != "" && text.CountRunes(tag) <= entity.MaxTagLength {
			out = append(out, tag)
		}
	}
	return out
}
