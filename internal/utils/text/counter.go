// Package text provides small text helpers shared by the note and AI layers:
// rune-aware counting and truncation, and HTML-to-plain-text conversion.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Limits on titles, summaries and AI inputs are expressed in characters, not bytes.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("héllo")     // returns 5
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate returns at most limit characters of s. It never splits a rune.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if CountRunes(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
