// Package sqlstore keeps guild, user and gang state in SQLite. It offers the
// same reader and writer methods as the datastore-backed storage.Storage.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/keshon/dea-bot/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS guilds (
	guild_id        TEXT PRIMARY KEY,
	prefix          TEXT NOT NULL DEFAULT '',
	nsfw            INTEGER NOT NULL DEFAULT 0,
	nsfw_channel_id TEXT NOT NULL DEFAULT '',
	nsfw_role_id    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS mod_roles (
	guild_id TEXT NOT NULL,
	role_id  TEXT NOT NULL,
	role_rank INTEGER NOT NULL,
	PRIMARY KEY (guild_id, role_id)
);
CREATE TABLE IF NOT EXISTS rank_roles (
	guild_id TEXT NOT NULL,
	level    INTEGER NOT NULL,
	role_id  TEXT NOT NULL,
	PRIMARY KEY (guild_id, level)
);
CREATE TABLE IF NOT EXISTS users (
	guild_id TEXT NOT NULL,
	user_id  TEXT NOT NULL,
	cash     INTEGER NOT NULL DEFAULT 0,
	gang_id  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (guild_id, user_id)
);
CREATE TABLE IF NOT EXISTS cooldowns (
	guild_id TEXT NOT NULL,
	user_id  TEXT NOT NULL,
	action   TEXT NOT NULL,
	used_at  INTEGER NOT NULL,
	PRIMARY KEY (guild_id, user_id, action)
);
CREATE TABLE IF NOT EXISTS gangs (
	gang_id   TEXT PRIMARY KEY,
	guild_id  TEXT NOT NULL,
	name      TEXT NOT NULL COLLATE NOCASE,
	leader_id TEXT NOT NULL,
	wealth    INTEGER NOT NULL DEFAULT 0,
	last_raid INTEGER NOT NULL DEFAULT 0,
	UNIQUE (guild_id, name)
);
CREATE TABLE IF NOT EXISTS gang_members (
	gang_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	PRIMARY KEY (gang_id, user_id)
);
CREATE TABLE IF NOT EXISTS command_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id   TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	username   TEXT NOT NULL,
	command    TEXT NOT NULL,
	datetime   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS command_history_guild ON command_history (guild_id, id);
`

type Store struct {
	db            *sqlx.DB
	defaultPrefix string
	historyLimit  int
}

type Option func(*Store)

func WithDefaultPrefix(prefix string) Option {
	return func(s *Store) { s.defaultPrefix = prefix }
}

func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// A single connection serializes transactions, which is what makes the
	// claim methods compare-and-set.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	s := &Store{db: db, defaultPrefix: "$", historyLimit: 20}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// notFound maps sql.ErrNoRows onto storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
