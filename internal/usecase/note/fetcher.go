package note

import "context"

// Page is the readable part of a fetched web page.
type Page struct {
	URL      string
	Title    string
	SiteName string
	// Text is the extracted article text without markup.
	Text string
}

// ContentFetcher fetches a web page and extracts its readable content.
//
// Implementations must reject URLs that resolve to private networks and
// return the errors declared in this package so callers can map them.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}
