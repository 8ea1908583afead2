package ai

import (
	"context"
)

// Summarizer produces an abstractive summary of plain text.
// Implementations: infra/inference.HuggingFace, infra/summarizer.Claude,
// infra/summarizer.OpenAI.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Labeler scores candidate labels against text (zero-shot classification).
type Labeler interface {
	// Classify returns one Label per candidate, highest score first.
	Classify(ctx context.Context, text string, candidates []string) ([]Label, error)
}

// Label is a candidate label with its classification score in [0, 1].
type Label struct {
	Name  string
	Score float64
}

// SummaryResult is the outcome of Service.Summarize.
type SummaryResult struct {
	Summary string
	// Source is entity.SummarySourceRemote or entity.SummarySourceLocal.
	Source string
}

// TagsResult is the outcome of Service.Tags.
type TagsResult struct {
	// Tags is the merged, deduplicated tag list (at most digest.MaxTags).
	Tags []string
	// Remote holds the zero-shot labels that made it into Tags' input.
	Remote []string
	// Keywords holds the local keyword and context tags.
	Keywords []string
}

// RefreshReport summarizes one RefreshStale run.
type RefreshReport struct {
	Scanned   int
	Digested  int
	Failed    int
	Remote    int
	Fallbacks int
}
