// Package store provides a SQLite-backed local history of trimming jobs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Outcome values recorded for terminal jobs.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Record is one terminal job in the local history.
type Record struct {
	JobID        string
	SourcePath   string
	OutputName   string
	OutputSize   int64
	SegmentCount int
	Outcome      string
	SubmittedAt  time.Time
	FinishedAt   time.Time
}

// History provides SQLite-backed job history.
type History struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the history database.
func (h *History) Close() error {
	return h.db.Close()
}

// Save stores one terminal job. Resubmissions of the same job id replace the
// earlier row.
func (h *History) Save(r Record) error {
	_, err := h.db.Exec(`INSERT OR REPLACE INTO jobs
		(job_id, source_path, output_name, output_size, segment_count, outcome, submitted_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.JobID, r.SourcePath, r.OutputName, r.OutputSize, r.SegmentCount, r.Outcome,
		r.SubmittedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Recent returns up to limit records, newest first.
func (h *History) Recent(limit int) ([]Record, error) {
	rows, err := h.db.Query(`SELECT
		job_id, source_path, output_name, output_size, segment_count, outcome, submitted_at, finished_at
		FROM jobs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var size sql.NullInt64
		var submitted, finished string

		if err := rows.Scan(&r.JobID, &r.SourcePath, &r.OutputName, &size,
			&r.SegmentCount, &r.Outcome, &submitted, &finished); err != nil {
			return nil, err
		}

		if size.Valid {
			r.OutputSize = size.Int64
		}
		r.SubmittedAt, _ = time.Parse(time.RFC3339, submitted)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of recorded jobs.
func (h *History) Count() (int, error) {
	var count int
	err := h.db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count)
	return count, err
}

// Delete removes a job from the history.
func (h *History) Delete(jobID string) error {
	_, err := h.db.Exec("DELETE FROM jobs WHERE job_id = ?", jobID)
	return err
}
