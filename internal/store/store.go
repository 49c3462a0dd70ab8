package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
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

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
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

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS goals (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		weight      REAL NOT NULL DEFAULT 1.0,
		deadline    TEXT,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		title            TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		importance       INTEGER NOT NULL CHECK(importance BETWEEN 1 AND 10),
		status           TEXT NOT NULL DEFAULT 'todo',
		created_date     TEXT NOT NULL,
		scheduled_date   TEXT NOT NULL,
		deadline         TEXT,
		goal_id          INTEGER REFERENCES goals(id),
		energy           TEXT NOT NULL DEFAULT 'medium',
		category         TEXT NOT NULL DEFAULT 'routine',
		prereq_ids       TEXT NOT NULL DEFAULT '[]',
		contribution     REAL NOT NULL DEFAULT 0.8
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_scheduled ON tasks(scheduled_date, status);

	CREATE TABLE IF NOT EXISTS schedule (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		day_of_week TEXT NOT NULL UNIQUE,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS energy_log (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		level     TEXT NOT NULL,
		logged_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/task-tracker/tasks.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "task-tracker", "tasks.db"), nil
}
