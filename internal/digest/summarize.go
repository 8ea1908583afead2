// Package digest implements the local text digest engine: an extractive
// summarizer and a keyword/context tag extractor. Everything here is a pure
// function of its input, so it is safe for concurrent use and is what the AI
// service falls back to when the hosted inference API cannot be reached.
package digest

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// minSentenceLen is the trimmed length a fragment must exceed to count as a sentence.
	minSentenceLen = 10
	// minSentences is the sentence count below which Summarize truncates instead of scoring.
	minSentences = 3
	// truncateLen is the number of characters kept on the truncation path.
	truncateLen = 200
	// maxSummarySentences caps the number of sentences in a summary.
	maxSummarySentences = 3
	// minSummaryWordLen is the length a word must exceed to be counted for scoring.
	minSummaryWordLen = 3
	// leadBonus multiplies the score of the first sentence.
	leadBonus = 1.5
	// ellipsis terminates truncated output.
	ellipsis = "..."
)

type sentence struct {
	text  string
	score float64
	index int
}

// Summarize returns an extractive summary of text.
//
// Sentences are scored by the mean document frequency of their words, the
// first sentence gets a 1.5x bonus, and the best min(3, ceil(n/3)) sentences
// are emitted in their original order. Text with fewer than three qualifying
// sentences is truncated to 200 characters and suffixed with "...".
func Summarize(text string) string {
	raw := splitSentences(text)
	if len(raw) < minSentences {
		return truncate(text, truncateLen) + ellipsis
	}

	freq := make(map[string]int)
	for _, w := range wordToken.FindAllString(strings.ToLower(text), -1) {
		if len(w) > minSummaryWordLen {
			freq[w]++
		}
	}

	scored := make([]sentence, len(raw))
	for i, s := range raw {
		score := meanFrequency(s, freq)
		if i == 0 {
			score *= leadBonus
		}
		scored[i] = sentence{text: strings.TrimSpace(s), score: score, index: i}
	}

	k := int(math.Ceil(float64(len(scored)) / 3))
	if k > maxSummarySentences {
		k = maxSummarySentences
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	top := scored[:k]
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].index < top[j].index
	})

	parts := make([]string, len(top))
	for i, s := range top {
		parts[i] = s.text
	}
	return strings.Join(parts, ". ") + "."
}

// splitSentences splits on runs of terminal punctuation and drops short fragments.
// The returned fragments are untrimmed.
func splitSentences(text string) []string {
	var out []string
	for _, frag := range sentenceSplit.Split(text, -1) {
		if utf8.RuneCountInString(strings.TrimSpace(frag)) > minSentenceLen {
			out = append(out, frag)
		}
	}
	return out
}

// meanFrequency is the average table frequency of the words in s, or 0 when s has no words.
func meanFrequency(s string, freq map[string]int) float64 {
	words := wordToken.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += freq[w]
	}
	return float64(total) / float64(len(words))
}

// truncate returns at most n characters of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
