// Package grammar checks note text against a grammar service and renders
// the reported mistakes as highlighted HTML.
package grammar

import (
	"context"
	"html"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf16"

	"smartnotes/internal/observability/logging"
)

// Match is one mistake reported by the grammar checker. Offset and Length
// count UTF-16 code units, as LanguageTool does.
type Match struct {
	Message      string   `json:"message"`
	ShortMessage string   `json:"shortMessage,omitempty"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Replacements []string `json:"replacements"`
	RuleID       string   `json:"ruleId,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// Checker reports grammar mistakes in text.
type Checker interface {
	Check(ctx context.Context, text string) ([]Match, error)
}

// Service wraps a Checker. A nil checker disables grammar checking.
type Service struct {
	checker Checker
}

// NewService creates a grammar service.
func NewService(checker Checker) *Service {
	return &Service{checker: checker}
}

// Check returns the mistakes found in text. Blank text, a disabled checker
// and checker failures all yield an empty, non-nil list.
func (s *Service) Check(ctx context.Context, text string) []Match {
	if s.checker == nil || strings.TrimSpace(text) == "" {
		return []Match{}
	}

	matches, err := s.checker.Check(ctx, text)
	if err != nil {
		logging.WithRequestID(ctx, slog.Default()).Warn("grammar check failed, returning no matches",
			slog.Int("text_length", len(text)),
			slog.Any("error", err))
		return []Match{}
	}
	if matches == nil {
		return []Match{}
	}
	return matches
}

const errorSpanOpen = `<span class="grammar-error" style="text-decoration: underline; ` +
	`text-decoration-color: red; text-decoration-style: wavy;" title="`

// Highlight wraps every matched range of text in a grammar-error span whose
// title is the escaped match message. Matches are applied from the last
// offset backwards so earlier offsets stay valid. Matches that fall outside
// the text or overlap a later match are skipped.
func Highlight(text string, matches []Match) string {
	if len(matches) == 0 {
		return text
	}

	units := utf16.Encode([]rune(text))

	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Offset > ordered[j].Offset })

	// segments are collected back to front
	var parts []string
	end := len(units)
	for _, m := range ordered {
		if m.Offset < 0 || m.Length <= 0 || m.Offset+m.Length > end {
			continue
		}
		parts = append(parts,
			string(utf16.Decode(units[m.Offset+m.Length:end])),
			"</span>",
			string(utf16.Decode(units[m.Offset:m.Offset+m.Length])),
			errorSpanOpen+html.EscapeString(m.Message)+`">`,
		)
		end = m.Offset
	}
	parts = append(parts, string(utf16.Decode(units[:end])))

	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	return b.String()
}
