package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML converts note markup into plain text and trims surrounding
// whitespace. Entities are decoded. Input that fails to parse is returned
// trimmed but otherwise unchanged.
func StripHTML(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return strings.TrimSpace(markup)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return strings.TrimSpace(markup)
	}
	return strings.TrimSpace(doc.Text())
}

// Clean strips markup and caps the result at limit characters.
// A non-positive limit disables the cap.
func Clean(markup string, limit int) string {
	plain := StripHTML(markup)
	if limit <= 0 {
		return plain
	}
	return Truncate(plain, limit)
}
