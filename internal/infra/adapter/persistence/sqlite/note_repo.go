// Package sqlite provides SQLite implementations of repository interfaces.
// It backs the single-user, local-file deployment of the note service.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartnotes/internal/domain/entity"
	"smartnotes/internal/repository"
	"smartnotes/internal/utils/text"
)

const noteColumns = `id, title, content, pinned, tags, ai_summary, summary_source, digested_at, created_at, updated_at`

// NoteRepo implements the NoteRepository interface using SQLite.
type NoteRepo struct{ db *sql.DB }

// NewNoteRepo creates a new SQLite-backed note repository.
func NewNoteRepo(db *sql.DB) repository.NoteRepository {
	return &NoteRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*entity.Note, error) {
	var note entity.Note
	var tagsJSON []byte
	if err := row.Scan(
		&note.ID, &note.Title, &note.Content, &note.Pinned, &tagsJSON,
		&note.AISummary, &note.SummarySource, &note.DigestedAt,
		&note.CreatedAt, &note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &note.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return &note, nil
}

// Timestamps are stored in UTC so that text comparison in SQL orders them correctly.
func utc(t time.Time) time.Time { return t.UTC() }

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	return string(b), err
}

func (repo *NoteRepo) queryNotes(ctx context.Context, op, query string, args ...any) ([]*entity.Note, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	notes := make([]*entity.Note, 0, 50)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return notes, nil
}

// List retrieves all notes, pinned first, then newest first.
func (repo *NoteRepo) List(ctx context.Context) ([]*entity.Note, error) {
	const query = `
SELECT ` + noteColumns + `
FROM notes
ORDER BY pinned DESC, created_at DESC, id DESC
`
	return repo.queryNotes(ctx, "List", query)
}

// Search retrieves notes whose title or content contains keyword literally.
// SQLite's LIKE folds case for ASCII letters only, so "É" and "é" differ.
func (repo *NoteRepo) Search(ctx context.Context, keyword string) ([]*entity.Note, error) {
	const query = `
SELECT ` + noteColumns + `
FROM notes
WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
ORDER BY pinned DESC, created_at DESC, id DESC
`
	pattern := text.ContainsPattern(keyword)
	return repo.queryNotes(ctx, "Search", query, pattern, pattern)
}

// ListStale retrieves notes that need a fresh digest, oldest edit first.
func (repo *NoteRepo) ListStale(ctx context.Context, limit int) ([]*entity.Note, error) {
	const query = `
SELECT ` + noteColumns + `
FROM notes
WHERE digested_at IS NULL OR updated_at > digested_at
ORDER BY updated_at ASC
LIMIT ?
`
	return repo.queryNotes(ctx, "ListStale", query, limit)
}

// Get retrieves a note by ID. Returns (nil, nil) when it does not exist.
func (repo *NoteRepo) Get(ctx context.Context, id int64) (*entity.Note, error) {
	const query = `
SELECT ` + noteColumns + `
FROM notes
WHERE id = ?
LIMIT 1
`
	note, err := scanNote(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return note, nil
}

// Create inserts a note and stores the generated ID on it.
func (repo *NoteRepo) Create(ctx context.Context, note *entity.Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return fmt.Errorf("Create: marshal tags: %w", err)
	}

	const query = `
INSERT INTO notes
       (title, content, pinned, tags, ai_summary, summary_source, digested_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	res, err := repo.db.ExecContext(ctx, query,
		note.Title, note.Content, note.Pinned, tags,
		note.AISummary, note.SummarySource, utcPtr(note.DigestedAt),
		utc(note.CreatedAt), utc(note.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	note.ID = id
	return nil
}

// Update overwrites every stored field of the note.
func (repo *NoteRepo) Update(ctx context.Context, note *entity.Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return fmt.Errorf("Update: marshal tags: %w", err)
	}

	const query = `
UPDATE notes SET
       title          = ?,
       content        = ?,
       pinned         = ?,
       tags           = ?,
       ai_summary     = ?,
       summary_source = ?,
       digested_at    = ?,
       updated_at     = ?
WHERE id = ?
`
	res, err := repo.db.ExecContext(ctx, query,
		note.Title, note.Content, note.Pinned, tags,
		note.AISummary, note.SummarySource, utcPtr(note.DigestedAt),
		utc(note.UpdatedAt), note.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

// Delete removes a note by ID.
func (repo *NoteRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
