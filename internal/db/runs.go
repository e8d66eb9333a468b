package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("analysis run not found")

// Run describes one analysis invocation.
type Run struct {
	ID        string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Period    string    `json:"period"`
	MinPoints int       `json:"min_points"`
	Units     string    `json:"units"`
	Gases     string    `json:"gases"`

	// Populated by GetRun and ListRuns.
	TrendCount   int `json:"trend_count"`
	OutlierCount int `json:"outlier_count"`
}

// CreateRun inserts a run. A new id is generated when run.ID is empty and
// CreatedAt defaults to now.
func (db *DB) CreateRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Units == "" {
		run.Units = "All"
	}
	if run.Gases == "" {
		run.Gases = "All"
	}

	_, err := db.Exec(
		`INSERT INTO analysis_runs (run_id, created_at, source, period, min_points, units, gases)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Unix(), run.Source, run.Period, run.MinPoints, run.Units, run.Gases,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

const runColumns = `r.run_id, r.created_at, r.source, r.period, r.min_points, r.units, r.gases,
	(SELECT COUNT(*) FROM trend_verdicts t WHERE t.run_id = r.run_id),
	(SELECT COUNT(*) FROM outliers o WHERE o.run_id = r.run_id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run       Run
		createdAt int64
	)
	if err := s.Scan(&run.ID, &createdAt, &run.Source, &run.Period, &run.MinPoints,
		&run.Units, &run.Gases, &run.TrendCount, &run.OutlierCount); err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &run, nil
}

// GetRun returns a run by id, or ErrRunNotFound.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM analysis_runs r WHERE r.run_id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM analysis_runs r
		ORDER BY r.created_at DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// DeleteRun removes a run and its results.
func (db *DB) DeleteRun(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM trend_verdicts WHERE run_id = ?`,
		`DELETE FROM outliers WHERE run_id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("failed to delete results for run %s: %w", id, err)
		}
	}
	res, err := tx.Exec(`DELETE FROM analysis_runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}
	return tx.Commit()
}
