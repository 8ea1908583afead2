// Package repository declares the persistence ports used by the use case layer.
package repository

import (
	"context"

	"smartnotes/internal/domain/entity"
)

// NoteRepository persists notes.
//
// List and Search return notes ordered pinned first, then newest first.
// Get returns (nil, nil) when the note does not exist.
type NoteRepository interface {
	List(ctx context.Context) ([]*entity.Note, error)
	// Search matches keyword case-insensitively against title and content.
	Search(ctx context.Context, keyword string) ([]*entity.Note, error)
	Get(ctx context.Context, id int64) (*entity.Note, error)
	// Create inserts the note and sets its ID.
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id int64) error
	// ListStale returns up to limit notes that were never digested or were
	// edited after their last digest, oldest edit first.
	ListStale(ctx context.Context, limit int) ([]*entity.Note, error)
}
