package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, MigrateUp(ctx, db, SQLite))
	// idempotent
	require.NoError(t, MigrateUp(ctx, db, SQLite))

	_, err = db.ExecContext(ctx,
		`INSERT INTO notes (title, content, created_at, updated_at) VALUES ('a', 'b', '2026-01-01 00:00:00', '2026-01-01 00:00:00')`)
	require.NoError(t, err)

	var tags string
	var pinned bool
	require.NoError(t, db.QueryRowContext(ctx, `SELECT tags, pinned FROM notes`).Scan(&tags, &pinned))
	assert.Equal(t, "[]", tags)
	assert.False(t, pinned)

	require.NoError(t, MigrateDown(ctx, db))
	_, err = db.ExecContext(ctx, `SELECT 1 FROM notes`)
	assert.Error(t, err)
}

func TestMigrateUp_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range postgresSchema {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	// pg_trgm failure must not abort the migration
	mock.ExpectExec("CREATE EXTENSION").WillReturnError(assert.AnError)
	mock.ExpectExec("idx_notes_title_gin").WillReturnError(assert.AnError)
	mock.ExpectExec("idx_notes_content_gin").WillReturnError(assert.AnError)

	require.NoError(t, MigrateUp(context.Background(), db, Postgres))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_PostgresError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

	err = MigrateUp(context.Background(), db, Postgres)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMigrateUp_UnknownDialect(t *testing.T) {
	err := MigrateUp(context.Background(), nil, Dialect("oracle"))
	assert.ErrorIs(t, err, ErrUnknownDialect)
}
