package digest

import (
	"sort"
	"strings"
)

const (
	// MaxTags is the upper bound on the size of any tag set.
	MaxTags = 8
	// maxKeywordTags is how many frequency-ranked keywords are considered.
	maxKeywordTags = 10
	// minTagLen is the length a token must exceed to become a keyword.
	minTagLen = 2
)

// ExtractTags returns up to MaxTags unique lowercase tags for text.
//
// Context tags from the fixed pattern table come first, followed by the ten
// most frequent non-stop-word tokens (ties keep first-occurrence order).
func ExtractTags(text string) []string {
	return MergeTags(ContextTags(text), KeywordTags(text))
}

// ContextTags returns the fixed labels whose patterns match text, in table order.
func ContextTags(text string) []string {
	var tags []string
	for _, rule := range contextRules {
		if rule.Pattern.MatchString(text) {
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}

// KeywordTags returns the most frequent keyword tokens of text, at most ten.
func KeywordTags(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= minTagLen || IsStopWord(tok) || numericOnly.MatchString(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxKeywordTags {
		order = order[:maxKeywordTags]
	}
	return order
}

// MergeTags concatenates the groups, drops repeats keeping the first
// occurrence, and truncates the result to MaxTags entries.
func MergeTags(groups ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, MaxTags)
	for _, group := range groups {
		for _, tag := range group {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
			if len(out) == MaxTags {
				return out
			}
		}
	}
	return out
}
