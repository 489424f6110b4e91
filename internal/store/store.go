// Package store persists review runs and reconciliation results to SQLite
// with write-through semantics. Rows keep their canonical order via an
// explicit position column, so reads reproduce the run exactly.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/reconcile"
	"github.com/itgov-review/rfpcheck/internal/review"
)

// ErrNotFound is returned when a run id has no stored row.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	project      TEXT NOT NULL DEFAULT '',
	mode         TEXT NOT NULL DEFAULT 'single',
	started_at   TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	metadata     TEXT NOT NULL DEFAULT '{}',
	reply        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS results (
	run_id         TEXT NOT NULL,
	position       INTEGER NOT NULL,
	item_id        TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	item           TEXT NOT NULL DEFAULT '',
	compliance     TEXT NOT NULL DEFAULT '',
	evidence       TEXT NOT NULL DEFAULT '[]',
	recommendation TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, position)
);

CREATE TABLE IF NOT EXISTS comparisons (
	run_id              TEXT NOT NULL,
	position            INTEGER NOT NULL,
	category            TEXT NOT NULL DEFAULT '',
	canonical_id        TEXT NOT NULL DEFAULT '',
	item                TEXT NOT NULL DEFAULT '',
	precheck_raw        TEXT NOT NULL DEFAULT '',
	precheck_normalized TEXT NOT NULL DEFAULT '',
	system_compliance   TEXT NOT NULL DEFAULT '',
	verdict             TEXT NOT NULL,
	explanation         TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, position)
);
`

// Store is a SQLite-backed run archive.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes the run header and its records in one transaction. Saving
// the same run id again replaces the previous rows.
func (s *Store) SaveRun(run review.RunResult) error {
	metaJSON, err := json.Marshal(run.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO runs (run_id, project, mode, started_at, completed_at, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Project, string(run.Mode),
		run.Metadata.StartedAt.Format(time.RFC3339Nano),
		run.Metadata.CompletedAt.Format(time.RFC3339Nano),
		string(metaJSON),
	); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM results WHERE run_id = ?", run.RunID); err != nil {
		return err
	}
	for i, r := range run.Records {
		evJSON, err := json.Marshal(r.Evidence)
		if err != nil {
			return fmt.Errorf("marshal evidence: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO results (run_id, position, item_id, category, item, compliance, evidence, recommendation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, i, r.ID, r.Category, r.Item, r.Compliance, string(evJSON), r.Recommendation,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRun loads a full run, records in stored order.
func (s *Store) GetRun(runID string) (review.RunResult, error) {
	var row struct {
		RunID    string `db:"run_id"`
		Project  string `db:"project"`
		Mode     string `db:"mode"`
		Metadata string `db:"metadata"`
	}
	err := s.db.Get(&row, "SELECT run_id, project, mode, metadata FROM runs WHERE run_id = ?", runID)
	if errors.Is(err, sql.ErrNoRows) {
		return review.RunResult{}, ErrNotFound
	}
	if err != nil {
		return review.RunResult{}, err
	}

	run := review.RunResult{
		RunID:   row.RunID,
		Project: row.Project,
		Mode:    checklist.GroupStrategy(row.Mode),
	}
	if err := json.Unmarshal([]byte(row.Metadata), &run.Metadata); err != nil {
		return review.RunResult{}, fmt.Errorf("unmarshal metadata: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT item_id, category, item, compliance, evidence, recommendation
		 FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return review.RunResult{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var r review.Record
		var evJSON string
		if err := rows.Scan(&r.ID, &r.Category, &r.Item, &r.Compliance, &evJSON, &r.Recommendation); err != nil {
			return review.RunResult{}, err
		}
		if err := json.Unmarshal([]byte(evJSON), &r.Evidence); err != nil {
			return review.RunResult{}, fmt.Errorf("unmarshal evidence: %w", err)
		}
		run.Records = append(run.Records, r)
	}
	if err := rows.Err(); err != nil {
		return review.RunResult{}, err
	}
	return run, nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID       string `json:"run_id" db:"run_id"`
	Project     string `json:"project" db:"project"`
	Mode        string `json:"mode" db:"mode"`
	StartedAt   string `json:"started_at" db:"started_at"`
	CompletedAt string `json:"completed_at" db:"completed_at"`
}

// ListRuns returns run headers, newest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	var out []RunSummary
	err := s.db.Select(&out,
		"SELECT run_id, project, mode, started_at, completed_at FROM runs ORDER BY started_at DESC")
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveComparisons replaces the reconciliation rows for a run.
func (s *Store) SaveComparisons(runID string, comps []reconcile.Comparison) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM comparisons WHERE run_id = ?", runID); err != nil {
		return err
	}
	for i, c := range comps {
		if _, err := tx.Exec(
			`INSERT INTO comparisons (run_id, position, category, canonical_id, item,
			   precheck_raw, precheck_normalized, system_compliance, verdict, explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, c.Category, c.CanonicalID, c.ItemText,
			c.PrecheckRaw, c.PrecheckNormalized, c.SystemCompliance, string(c.Verdict), c.Explanation,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Comparisons loads the reconciliation rows for a run in stored order. A run
// without a reconciliation pass yields an empty slice.
func (s *Store) Comparisons(runID string) ([]reconcile.Comparison, error) {
	rows, err := s.db.Query(
		`SELECT category, canonical_id, item, precheck_raw, precheck_normalized,
		        system_compliance, verdict, explanation
		 FROM comparisons WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reconcile.Comparison
	for rows.Next() {
		var c reconcile.Comparison
		var verdict string
		if err := rows.Scan(&c.Category, &c.CanonicalID, &c.ItemText,
			&c.PrecheckRaw, &c.PrecheckNormalized, &c.SystemCompliance, &verdict, &c.Explanation); err != nil {
			return nil, err
		}
		c.Verdict = reconcile.Verdict(verdict)
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveReply attaches a drafted correction reply to an existing run.
func (s *Store) SaveReply(runID, reply string) error {
	res, err := s.db.Exec("UPDATE runs SET reply = ? WHERE run_id = ?", reply, runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reply returns the stored correction reply, empty if none was drafted.
func (s *Store) Reply(runID string) (string, error) {
	var reply string
	err := s.db.Get(&reply, "SELECT reply FROM runs WHERE run_id = ?", runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}
