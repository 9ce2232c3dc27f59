// Package sqlite is a single-file store for small deployments and tests.
// List columns are JSON arrays.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	modernc "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= currentVersion {
		return nil
	}
	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		phone       TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL,
		status      TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS groups (
		id             TEXT PRIMARY KEY,
		group_name     TEXT NOT NULL UNIQUE,
		manager_phone  TEXT NOT NULL,
		user_phones    TEXT NOT NULL DEFAULT '[]',
		active         INTEGER NOT NULL DEFAULT 1,
		created_at     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_groups_manager ON groups(manager_phone);

	CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		start_date    TEXT NOT NULL DEFAULT '',
		end_date      TEXT NOT NULL DEFAULT '',
		start_time    TEXT NOT NULL DEFAULT '',
		end_time      TEXT NOT NULL DEFAULT '',
		repeat_days   TEXT NOT NULL DEFAULT '[]',
		group_name    TEXT NOT NULL,
		task_type     TEXT NOT NULL DEFAULT '',
		importance    INTEGER NOT NULL DEFAULT 0,
		created_by    TEXT NOT NULL,
		created_name  TEXT NOT NULL DEFAULT '',
		needphoto     INTEGER NOT NULL DEFAULT 0,
		needcomment   INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_group   ON tasks(group_name);
	CREATE INDEX IF NOT EXISTS idx_tasks_creator ON tasks(created_by);

	CREATE TABLE IF NOT EXISTS completed_tasks (
		id           TEXT PRIMARY KEY,
		id_task      TEXT NOT NULL,
		key_time     TEXT NOT NULL,
		phone        TEXT NOT NULL,
		start_time   TEXT NOT NULL DEFAULT '',
		finish_time  TEXT NOT NULL DEFAULT '',
		pause_start  TEXT NOT NULL DEFAULT '[]',
		pause_end    TEXT NOT NULL DEFAULT '[]',
		cancel_time  TEXT NOT NULL DEFAULT '',
		comment      TEXT NOT NULL DEFAULT '',
		status       INTEGER NOT NULL,
		created_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completed_key   ON completed_tasks(key_time);
	CREATE INDEX IF NOT EXISTS idx_completed_phone ON completed_tasks(phone);
	CREATE INDEX IF NOT EXISTS idx_completed_task  ON completed_tasks(id_task);
	`
	_, err := s.db.Exec(ddl)
	return err
}

func isUniqueViolation(err error) bool {
	var se *modernc.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// jsonList encodes a string list for a JSON column; nil becomes [].
func jsonList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func parseList(s string) []string {
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

// placeholders returns "?, ?, ..." for n values along with the values as args.
func placeholders(values []string) (string, []any) {
	marks := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		marks[i] = "?"
		args[i] = v
	}
	return strings.Join(marks, ", "), args
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
