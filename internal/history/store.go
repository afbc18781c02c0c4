// Package history provides the SQLite log of checks and overlay
// episodes (~/.local/share/handcuffs/handcuffs.db).
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Check is one completed poll-loop tick.
type Check struct {
	ID      int64
	At      time.Time
	Verdict bool
	Error   string
}

// Episode is one lock/unlock cycle of the overlay gate.
type Episode struct {
	ID        string
	OpenedAt  time.Time
	ClosedAt  sql.NullTime
	Attempts  int
	Challenge string
}

// Store wraps an SQLite database holding the activity log.
// It implements the poll loop's Recorder and the gate's EpisodeRecorder.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns the XDG data path for the history database.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "handcuffs", "handcuffs.db")
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL lets the history command read while a watch session writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			verdict INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			opened_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			closed_at DATETIME,
			attempts INTEGER NOT NULL DEFAULT 0,
			challenge TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordCheck stores one tick outcome. Recording failures are
// swallowed: history must never break the poll loop.
func (s *Store) RecordCheck(verdict bool, checkErr error) {
	errText := ""
	if checkErr != nil {
		errText = checkErr.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Exec("INSERT INTO checks (at, verdict, error) VALUES (?, ?, ?)",
		time.Now().UTC(), verdict, errText)
}

// EpisodeOpened stores the start of an overlay episode.
func (s *Store) EpisodeOpened(id, challenge string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Exec("INSERT INTO episodes (id, opened_at, challenge) VALUES (?, ?, ?)",
		id, time.Now().UTC(), challenge)
}

// EpisodeClosed marks an episode unlocked.
func (s *Store) EpisodeClosed(id string, attempts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Exec("UPDATE episodes SET closed_at = ?, attempts = ? WHERE id = ?",
		time.Now().UTC(), attempts, id)
}

// RecentChecks returns up to limit checks, newest first.
func (s *Store) RecentChecks(limit int) ([]Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(
		"SELECT id, at, verdict, error FROM checks ORDER BY at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var checks []Check
	for rows.Next() {
		var c Check
		if err := rows.Scan(&c.ID, &c.At, &c.Verdict, &c.Error); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

// RecentEpisodes returns up to limit episodes, newest first.
func (s *Store) RecentEpisodes(limit int) ([]Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(
		"SELECT id, opened_at, closed_at, attempts, challenge FROM episodes ORDER BY opened_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var e Episode
		if err := rows.Scan(&e.ID, &e.OpenedAt, &e.ClosedAt, &e.Attempts, &e.Challenge); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}
