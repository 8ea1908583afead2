package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS notes (
    id             BIGSERIAL PRIMARY KEY,
    title          TEXT NOT NULL DEFAULT 'Untitled',
    content        TEXT NOT NULL DEFAULT '',
    pinned         BOOLEAN NOT NULL DEFAULT FALSE,
    tags           JSONB NOT NULL DEFAULT '[]'::jsonb,
    ai_summary     TEXT NOT NULL DEFAULT '',
    summary_source VARCHAR(16) NOT NULL DEFAULT '',
    digested_at    TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	// list ordering
	`CREATE INDEX IF NOT EXISTS idx_notes_pinned_created ON notes(pinned DESC, created_at DESC)`,
	// stale digest scan
	`CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at)`,
}

// postgresOptional statements need pg_trgm and are skipped when it is unavailable.
var postgresOptional = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_notes_title_gin ON notes USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_content_gin ON notes USING gin(content gin_trgm_ops)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS notes (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    title          TEXT NOT NULL DEFAULT 'Untitled',
    content        TEXT NOT NULL DEFAULT '',
    pinned         INTEGER NOT NULL DEFAULT 0,
    tags           TEXT NOT NULL DEFAULT '[]',
    ai_summary     TEXT NOT NULL DEFAULT '',
    summary_source TEXT NOT NULL DEFAULT '',
    digested_at    DATETIME,
    created_at     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_pinned_created ON notes(pinned DESC, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at)`,
}

// MigrateUp creates the notes schema for the given dialect. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var stmts, optional []string
	switch dialect {
	case Postgres:
		stmts, optional = postgresSchema, postgresOptional
	case SQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	for _, stmt := range optional {
		// pg_trgm may be missing or need superuser rights
		_, _ = db.ExecContext(ctx, stmt)
	}
	return nil
}

// MigrateDown drops the notes schema. All notes are deleted.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS notes`); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}
