package metrics

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// History is a SQLite-backed archive of past metrics reports, used only to
// source the trend comparison. The JSON artifact remains the full
// machine-readable output of a run.
type History struct {
	db *sql.DB
}

// OpenHistory opens (or creates) the report history at dbPath. Use
// ":memory:" for an in-memory database.
func OpenHistory(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS reports (
		id            TEXT PRIMARY KEY,
		created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
		mode          TEXT NOT NULL,
		quality_score REAL NOT NULL,
		total_issues  INTEGER NOT NULL,
		payload       TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create reports table: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// Save archives a report.
func (h *History) Save(r *Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = h.db.Exec(
		`INSERT OR REPLACE INTO reports (id, created_at, mode, quality_score, total_issues, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Timestamp.UTC(), r.Mode, r.QualityScore, r.TotalIssues, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Latest returns the most recent archived report, or nil when the history is
// empty.
func (h *History) Latest() (*Report, error) {
	var payload string
	err := h.db.QueryRow(
		`SELECT payload FROM reports ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest report: %w", err)
	}

	var r Report
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("unmarshal archived report: %w", err)
	}
	return &r, nil
}
