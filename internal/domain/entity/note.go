// Package entity defines the core domain entities and validation logic for the application.
// It contains the Note entity, its validation rules and domain-specific errors.
package entity

import (
	"time"

	"smartnotes/internal/utils/text"
)

const (
	// DefaultNoteTitle is assigned to notes created without a title.
	DefaultNoteTitle = "Untitled"
	// DefaultNoteContent is assigned to notes created without content.
	DefaultNoteContent = "New note..."
)

// Summary sources recorded on a note after it has been digested.
const (
	SummarySourceRemote = "remote"
	SummarySourceLocal  = "local"
)

// Note represents a user note. Content may contain the editor's HTML markup.
type Note struct {
	ID            int64
	Title         string
	Content       string
	Pinned        bool
	Tags          []string
	AISummary     string
	SummarySource string
	DigestedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlainText returns the note content with markup removed and whitespace trimmed.
func (n *Note) PlainText() string {
	return text.StripHTML(n.Content)
}

// NeedsDigest reports whether the note has never been digested or was edited since.
func (n *Note) NeedsDigest() bool {
	if n.DigestedAt == nil {
		return true
	}
	return n.UpdatedAt.After(*n.DigestedAt)
}
