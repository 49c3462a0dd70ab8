package store

import (
	"database/sql"
	"fmt"
	"time"
)

// LogEnergy appends an energy declaration. The log is append-only; only the
// most recent entry is ever read.
func (s *Store) LogEnergy(level string) error {
	_, err := s.db.Exec(
		`INSERT INTO energy_log (level, logged_at) VALUES (?, ?)`,
		level, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("log energy: %w", err)
	}
	return nil
}

// LatestEnergy returns the most recent declaration, or nil when the log is
// empty.
func (s *Store) LatestEnergy() (*EnergyEntry, error) {
	var e EnergyEntry
	var loggedAt string
	err := s.db.QueryRow(
		`SELECT level, logged_at FROM energy_log ORDER BY id DESC LIMIT 1`,
	).Scan(&e.Level, &loggedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest energy: %w", err)
	}
	e.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)
	return &e, nil
}
