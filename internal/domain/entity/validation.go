package entity

import (
	"fmt"
	"net/url"
	"strings"

	"smartnotes/internal/utils/text"
)

const (
	// MaxTitleLength is the maximum note title length in characters.
	MaxTitleLength = 200
	// MaxContentLength is the maximum note content length in characters.
	MaxContentLength = 100_000
	// MaxTags is the maximum number of tags on a note.
	MaxTags = 8
	// MaxTagLength is the maximum length of a single tag in characters.
	MaxTagLength = 50
	// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
	maxURLLength = 2048
)

// ValidateTitle checks the title length.
func ValidateTitle(title string) error {
	if text.CountRunes(title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must not exceed %d characters", MaxTitleLength),
		}
	}
	return nil
}

// ValidateContent checks the content length.
func ValidateContent(content string) error {
	if text.CountRunes(content) > MaxContentLength {
		return &ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("must not exceed %d characters", MaxContentLength),
		}
	}
	return nil
}

// ValidateTags checks the tag count and that every tag is a non-empty,
// lowercase, bounded string without repeats.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return &ValidationError{Field: "tags", Message: fmt.Sprintf("must not exceed %d entries", MaxTags)}
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		switch {
		case tag == "":
			return &ValidationError{Field: "tags", Message: "cannot be empty"}
		case text.CountRunes(tag) > MaxTagLength:
			return &ValidationError{Field: "tags", Message: fmt.Sprintf("must not exceed %d characters each", MaxTagLength)}
		case tag != strings.ToLower(tag):
			return &ValidationError{Field: "tags", Message: "must be lowercase"}
		}
		if _, dup := seen[tag]; dup {
			return &ValidationError{Field: "tags", Message: "must be unique"}
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// Validate checks every user-editable field of the note.
func (n *Note) Validate() error {
	if err := ValidateTitle(n.Title); err != nil {
		return err
	}
	if err := ValidateContent(n.Content); err != nil {
		return err
	}
	return ValidateTags(n.Tags)
}

// ValidateURL validates the format of a URL submitted for clipping.
// Private-network checks happen in the fetcher, where the host is resolved.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "URL is invalid"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	return nil
}
