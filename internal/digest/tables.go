package digest

import "regexp"

// stopWords holds common English function words excluded from keyword ranking.
var stopWords = func() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "up", "about", "into", "through", "during",
		"before", "after", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "this", "that", "these", "those", "i", "me",
		"my", "myself", "we", "our", "ours", "ourselves", "you", "your",
		"yours", "yourself", "yourselves", "he", "him", "his", "himself",
		"she", "her", "hers", "herself", "it", "its", "itself", "they",
		"them", "their", "theirs", "themselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// contextRule emits Tag whenever Pattern matches the source text.
type contextRule struct {
	Pattern *regexp.Regexp
	Tag     string
}

// contextRules are evaluated in order; the order is the order of the emitted tags.
var contextRules = []contextRule{
	{Pattern: regexp.MustCompile(`(?i)meeting|agenda`), Tag: "meeting"},
	{Pattern: regexp.MustCompile(`(?i)todo|task`), Tag: "todo"},
	{Pattern: regexp.MustCompile(`(?i)idea|brainstorm`), Tag: "idea"},
	{Pattern: regexp.MustCompile(`(?i)project|plan`), Tag: "project"},
}

// candidateLabels is the label set offered to zero-shot classifiers.
var candidateLabels = []string{
	"work", "personal", "project", "meeting", "idea", "todo", "research",
	"learning", "technology", "business", "creative", "planning", "review",
	"brainstorming", "documentation", "analysis", "strategy", "development",
	"design", "communication", "finance", "health", "travel", "education",
	"productivity", "goals", "habits", "reflection", "insights",
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordToken     = regexp.MustCompile(`\w+`)
	nonWord       = regexp.MustCompile(`[^\w\s]`)
	numericOnly   = regexp.MustCompile(`^\d+$`)
)

// IsStopWord reports whether w (already lowercased) is excluded from keyword ranking.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// CandidateLabels returns a copy of the labels used for zero-shot tagging.
func CandidateLabels() []string {
	out := make([]string, len(candidateLabels))
	copy(out, candidateLabels)
	return out
}
