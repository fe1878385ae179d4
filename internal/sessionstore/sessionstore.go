// Package sessionstore records a summary row per tracking run: when it
// started and ended, which settings profile it used, and how many hands
// and frames it saw. It is the run-history counterpart to settingsstore's
// tuning profiles.
package sessionstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("sessionstore: not found")

// Session is one tracking run's summary.
type Session struct {
	ID             string
	SettingsName   string
	StartedAt      time.Time
	EndedAt        sql.NullTime
	FramesObserved int64
	HandsAllocated int64
}

// Store is a SQLite database connection for session summaries.
type Store struct {
	db *sql.DB
}

// New opens dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: open: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sessionstore: enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sessionstore: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) runMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			settings_name TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames_observed INTEGER NOT NULL DEFAULT 0,
			hands_allocated INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Begin inserts a new session row and returns it with StartedAt populated.
func (s *Store) Begin(id, settingsName string) (*Session, error) {
	sess := &Session{ID: id, SettingsName: settingsName, StartedAt: time.Now()}
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, settings_name, started_at) VALUES (?, ?, ?)`,
		sess.ID, sess.SettingsName, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// RecordFrame increments a session's observed-frame and allocated-hand
// counters. handsAllocatedThisFrame is the number of new trackingIds
// allocated during that frame (usually 0).
func (s *Store) RecordFrame(id string, handsAllocatedThisFrame int64) error {
	result, err := s.db.Exec(
		`UPDATE sessions SET frames_observed = frames_observed + 1, hands_allocated = hands_allocated + ?
		 WHERE id = ?`,
		handsAllocatedThisFrame, id,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// End marks a session as finished.
func (s *Store) End(id string) error {
	result, err := s.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a session by id.
func (s *Store) Get(id string) (*Session, error) {
	sess := &Session{ID: id}
	err := s.db.QueryRow(
		`SELECT settings_name, started_at, ended_at, frames_observed, hands_allocated
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.SettingsName, &sess.StartedAt, &sess.EndedAt, &sess.FramesObserved, &sess.HandsAllocated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// Recent returns the most recently started sessions, newest first.
func (s *Store) Recent(limit int) ([]*Session, error) {
	rows, err := s.db.Query(
		`SELECT id, settings_name, started_at, ended_at, frames_observed, hands_allocated
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		if err := rows.Scan(&sess.ID, &sess.SettingsName, &sess.StartedAt, &sess.EndedAt, &sess.FramesObserved, &sess.HandsAllocated); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
