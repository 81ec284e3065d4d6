package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"actioncam/recognize"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	completed_at TIMESTAMP NOT NULL,
	clips INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	label TEXT NOT NULL,
	score REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_results_session ON session_results(session_id);
`

// ResultStore persists one row per ranked label of each completed
// recognition session.
type ResultStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path.
func Open(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

// SaveFinal stores all ranked labels of a final result in one transaction.
func (s *ResultStore) SaveFinal(r recognize.FinalResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO session_results (session_id, completed_at, clips, rank, label, score) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, label := range r.Labels {
		if _, err := stmt.Exec(r.SessionID, r.Timestamp, r.Clips, label.Rank, label.Label, label.Score); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting result row: %w", err)
		}
	}
	return tx.Commit()
}

// SessionResult is one stored session verdict.
type SessionResult struct {
	SessionID   string
	CompletedAt time.Time
	Clips       int
	Labels      []recognize.RankedLabel
}

// Session loads the stored verdict for one session ID.
func (s *ResultStore) Session(sessionID string) (*SessionResult, error) {
	rows, err := s.db.Query(
		`SELECT completed_at, clips, rank, label, score FROM session_results WHERE session_id = ? ORDER BY rank`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session %s: %w", sessionID, err)
	}
	defer rows.Close()

	result := &SessionResult{SessionID: sessionID}
	for rows.Next() {
		var label recognize.RankedLabel
		if err := rows.Scan(&result.CompletedAt, &result.Clips, &label.Rank, &label.Label, &label.Score); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		result.Labels = append(result.Labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result.Labels) == 0 {
		return nil, sql.ErrNoRows
	}
	return result, nil
}

// Close closes the underlying database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}
