// Package note provides use cases for managing notes.
// It implements creation, partial updates, pinning, search and clipping of
// web pages into notes on top of the note repository.
package note

import "errors"

// Sentinel errors for note use case operations.
var (
	// ErrNoteNotFound indicates that the requested note was not found.
	ErrNoteNotFound = errors.New("note not found")

	// ErrInvalidNoteID indicates that the provided note ID is invalid.
	// Note IDs must be positive integers.
	ErrInvalidNoteID = errors.New("invalid note ID")
)

// Errors returned by a ContentFetcher when clipping a page.
var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the URL resolves to a loopback, private or link-local address.
	ErrPrivateIP = errors.New("private IP address not allowed")

	// ErrTooManyRedirects indicates the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrFetchTimeout indicates the page did not respond in time.
	ErrFetchTimeout = errors.New("fetch timeout")

	// ErrReadabilityFailed indicates no readable content could be extracted.
	ErrReadabilityFailed = errors.New("readability extraction failed")
)
