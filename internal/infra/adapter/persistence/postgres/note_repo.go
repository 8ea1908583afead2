// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"smartnotes/internal/domain/entity"
	"smartnotes/internal/repository"
	"smartnotes/internal/utils/text"
)

const noteColumns = `id, title, content, pinned, tags, ai_summary, summary_source, digested_at, created_at, updated_at`

// NoteRepo implements the NoteRepository interface using PostgreSQL.
type NoteRepo struct{ db *sql.DB }

// NewNoteRepo creates a new PostgreSQL-backed note repository.
func NewNoteRepo(db *sql.DB) repository.NoteRepository {
	return &NoteRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanNote scans one row selected with noteColumns, decoding the JSONB tag list.
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

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
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
ORDER BY pinned DESC, created_at DESC, id DESC`
	return repo.queryNotes(ctx, "List", query)
}

// Search retrieves notes whose title or content contains keyword literally
// (case-insensitive).
func (repo *NoteRepo) Search(ctx context.Context, keyword string) ([]*entity.Note, error) {
	const query = `
SELECT ` + noteColumns + `
FROM notes
WHERE title ILIKE $1 ESCAPE '\'
   OR content ILIKE $1 ESCAPE '\'
ORDER BY pinned DESC, created_at DESC, id DESC`
	return repo.queryNotes(ctx, "Search", query, text.ContainsPattern(keyword))
}

// ListStale retrieves notes that need a fresh digest, oldest edit first.
func (repo *NoteRepo) ListStale(ctx context.Context, limit int) ([]*entity.Note, error) {
	const query = `
SELECT ` + noteColumns + `
FROM notes
WHERE digested_at IS NULL
   OR updated_at > digested_at
ORDER BY updated_at ASC
LIMIT $1`
	return repo.queryNotes(ctx, "ListStale", query, limit)
}

// Get retrieves a note by ID. Returns (nil, nil) when it does not exist.
func (repo *NoteRepo) Get(ctx context.Context, id int64) (*entity.Note, error) {
	const query = `
SELECT ` + noteColumns + `
FROM notes
WHERE id = $1
LIMIT 1`
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
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	err = repo.db.QueryRowContext(ctx, query,
		note.Title, note.Content, note.Pinned, tags,
		note.AISummary, note.SummarySource, note.DigestedAt,
		note.CreatedAt, note.UpdatedAt,
	).Scan(&note.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
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
       title          = $1,
       content        = $2,
       pinned         = $3,
       tags           = $4,
       ai_summary     = $5,
       summary_source = $6,
       digested_at    = $7,
       updated_at     = $8
WHERE id = $9`
	res, err := repo.db.ExecContext(ctx, query,
		note.Title, note.Content, note.Pinned, tags,
		note.AISummary, note.SummarySource, note.DigestedAt,
		note.UpdatedAt, note.ID,
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
	const query = `DELETE FROM notes WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
