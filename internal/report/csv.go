// Package report writes analysis results as delimited tables, charts and
// terminal tables.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/dga.report/internal/dga"
)

// DateLayout is the zero-padded day-first layout of exported resampled
// tables. The loader reads it back.
const DateLayout = "02/01/2006"

// TimestampLayout is used for outlier timestamps and series points.
const TimestampLayout = "2006-01-02"

// TrendColumns is the header of the trend table.
var TrendColumns = []string{"unit_id", "gas_name", "trend_direction", "confidence", "statistic", "slope", "supporting_series"}

// OutlierColumns is the header of the outlier table.
var OutlierColumns = []string{"unit_id", "gas_name", "timestamp", "reference_value", "concentration_value"}

// WriteResampledCSV writes a resampled table in the input layout: Date,
// T.Number, ref, then the table's gas columns. Missing values are empty cells.
func WriteResampledCSV(w io.Writer, t *dga.ResampledTable) error {
	cw := csv.NewWriter(w)
	header := append([]string{dga.DateColumn, dga.UnitColumn, dga.RefColumn}, t.GasColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Timestamp.Format(DateLayout), row.UnitID, row.Ref.String())
		for _, g := range t.GasColumns {
			record = append(record, row.Gas(g).String())
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type seriesPoint struct {
	Date  string  `json:"date"`
	Ref   float64 `json:"ref"`
	Value float64 `json:"value"`
}

// supportingSeries encodes a verdict's cleaned series as compact JSON.
func supportingSeries(series []dga.SeriesPoint) (string, error) {
	pts := make([]seriesPoint, len(series))
	for i, p := range series {
		pts[i] = seriesPoint{Date: p.Timestamp.Format(TimestampLayout), Ref: p.Ref, Value: p.Value}
	}
	b, err := json.Marshal(pts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteTrendsCSV writes one row per verdict in TrendColumns order.
func WriteTrendsCSV(w io.Writer, verdicts []dga.TrendVerdict) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrendColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, v := range verdicts {
		series, err := supportingSeries(v.Series)
		if err != nil {
			return fmt.Errorf("failed to encode series for %s/%s: %w", v.UnitID, v.Gas, err)
		}
		record := []string{
			v.UnitID,
			v.Gas,
			string(v.Direction),
			v.Confidence.String(),
			v.Statistic.String(),
			v.Slope.String(),
			series,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOutliersCSV writes one row per record in OutlierColumns order. An
// empty slice produces a header-only table.
func WriteOutliersCSV(w io.Writer, records []dga.OutlierRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutlierColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		record := []string{
			r.UnitID,
			r.Gas,
			r.Timestamp.Format(TimestampLayout),
			r.Ref.String(),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
