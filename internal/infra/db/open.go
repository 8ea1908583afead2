// Package db opens the note database and manages its schema.
// DATABASE_URL selects the backend: postgres:// and postgresql:// URLs use
// pgx, anything else is treated as a SQLite file (modernc.org/sqlite).
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	envcfg "smartnotes/internal/pkg/config"
)

type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

// An unset DATABASE_URL means a notes.db file in the working directory.
const defaultSQLitePath = "file:notes.db"

type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// ParseDSN maps DATABASE_URL to a registered driver name and its DSN.
func ParseDSN(raw string) (Dialect, string) {
	if raw == "" {
		return SQLite, defaultSQLitePath
	}
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return Postgres, raw
	}
	for _, scheme := range []string{"sqlite://", "sqlite:"} {
		if rest, ok := strings.CutPrefix(raw, scheme); ok {
			return SQLite, "file:" + rest
		}
	}
	return SQLite, raw
}

// Open connects to DATABASE_URL, sizes the pool and pings once.
func Open(ctx context.Context) (*sql.DB, Dialect, error) {
	dialect, dsn := ParseDSN(os.Getenv("DATABASE_URL"))
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}

	pool := getConnectionConfigFromEnv()
	if dialect == SQLite {
		// single writer; more connections only produce SQLITE_BUSY
		pool.MaxOpenConns, pool.MaxIdleConns = 1, 1
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}

	slog.Info("database connected",
		slog.String("driver", string(dialect)),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Duration("conn_max_lifetime", pool.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", pool.ConnMaxIdleTime))
	return db, dialect, nil
}

// getConnectionConfigFromEnv reads the DB_* pool settings. Bad values keep
// the default and are logged.
func getConnectionConfigFromEnv() ConnectionConfig {
	def := DefaultConnectionConfig()
	positive := envcfg.IntRange(1, 10000)
	longer := envcfg.DurationRange(time.Second, 24*time.Hour)

	maxOpen := envcfg.LoadInt("DB_MAX_OPEN_CONNS", def.MaxOpenConns, positive)
	maxIdle := envcfg.LoadInt("DB_MAX_IDLE_CONNS", def.MaxIdleConns, positive)
	lifetime := envcfg.LoadDuration("DB_CONN_MAX_LIFETIME", def.ConnMaxLifetime, longer)
	idle := envcfg.LoadDuration("DB_CONN_MAX_IDLE_TIME", def.ConnMaxIdleTime, longer)

	for _, w := range []string{maxOpen.Warning, maxIdle.Warning, lifetime.Warning, idle.Warning} {
		if w != "" {
			slog.Warn("database pool setting ignored", slog.String("warning", w))
		}
	}
	return ConnectionConfig{
		MaxOpenConns:    maxOpen.Value,
		MaxIdleConns:    maxIdle.Value,
		ConnMaxLifetime: lifetime.Value,
		ConnMaxIdleTime: idle.Value,
	}
}

var ErrUnknownDialect = errors.New("unknown database dialect")
