package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/banshee-data/dga.report/internal/dga"
)

func nullable(v dga.Value) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Float, Valid: v.Valid}
}

func fromNullable(n sql.NullFloat64) dga.Value {
	if !n.Valid {
		return dga.Missing
	}
	return dga.Some(n.Float64)
}

// RecordTrends stores verdicts for a run in the given order.
func (db *DB) RecordTrends(runID string, verdicts []dga.TrendVerdict) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO trend_verdicts
		(run_id, unit_id, gas_name, trend_direction, confidence, statistic, slope, points, series)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range verdicts {
		series := v.Series
		if series == nil {
			series = []dga.SeriesPoint{}
		}
		encoded, err := json.Marshal(series)
		if err != nil {
			return fmt.Errorf("failed to encode series for %s/%s: %w", v.UnitID, v.Gas, err)
		}
		if _, err := stmt.Exec(runID, v.UnitID, v.Gas, string(v.Direction),
			nullable(v.Confidence), nullable(v.Statistic), nullable(v.Slope),
			len(v.Series), string(encoded)); err != nil {
			return fmt.Errorf("failed to record trend %s/%s: %w", v.UnitID, v.Gas, err)
		}
	}
	return tx.Commit()
}

// TrendsForRun returns a run's verdicts in recorded order.
func (db *DB) TrendsForRun(runID string) ([]dga.TrendVerdict, error) {
	rows, err := db.Query(`SELECT unit_id, gas_name, trend_direction, confidence, statistic, slope, series
		FROM trend_verdicts WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trends: %w", err)
	}
	defer rows.Close()

	verdicts := []dga.TrendVerdict{}
	for rows.Next() {
		var (
			v                       dga.TrendVerdict
			direction, series       string
			confidence, stat, slope sql.NullFloat64
		)
		if err := rows.Scan(&v.UnitID, &v.Gas, &direction, &confidence, &stat, &slope, &series); err != nil {
			return nil, err
		}
		v.Direction = dga.Direction(direction)
		v.Confidence = fromNullable(confidence)
		v.Statistic = fromNullable(stat)
		v.Slope = fromNullable(slope)
		if err := json.Unmarshal([]byte(series), &v.Series); err != nil {
			return nil, fmt.Errorf("failed to decode series for %s/%s: %w", v.UnitID, v.Gas, err)
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// RecordOutliers stores outlier records for a run in the given order.
func (db *DB) RecordOutliers(runID string, records []dga.OutlierRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO outliers
		(run_id, unit_id, gas_name, timestamp, reference_value, concentration_value)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.UnitID, r.Gas, r.Timestamp.Unix(), nullable(r.Ref), r.Value); err != nil {
			return fmt.Errorf("failed to record outlier %s/%s: %w", r.UnitID, r.Gas, err)
		}
	}
	return tx.Commit()
}

// OutliersForRun returns a run's outliers in recorded order.
func (db *DB) OutliersForRun(runID string) ([]dga.OutlierRecord, error) {
	rows, err := db.Query(`SELECT unit_id, gas_name, timestamp, reference_value, concentration_value
		FROM outliers WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outliers: %w", err)
	}
	defer rows.Close()

	records := []dga.OutlierRecord{}
	for rows.Next() {
		var (
			r   dga.OutlierRecord
			ts  int64
			ref sql.NullFloat64
		)
		if err := rows.Scan(&r.UnitID, &r.Gas, &ts, &ref, &r.Value); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(ts, 0).UTC()
		r.Ref = fromNullable(ref)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
