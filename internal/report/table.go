package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/banshee-data/dga.report/internal/dga"
)

// PrintTable renders rows as a borderless, left-aligned terminal table.
func PrintTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}
	return table.Render()
}

// PrintTrends prints verdicts without the supporting series.
func PrintTrends(w io.Writer, verdicts []dga.TrendVerdict) error {
	rows := make([][]string, 0, len(verdicts))
	for _, v := range verdicts {
		rows = append(rows, []string{
			v.UnitID,
			v.Gas,
			string(v.Direction),
			formatValue(v.Confidence, 4),
			formatValue(v.Statistic, 3),
			formatValue(v.Slope, 3),
			strconv.Itoa(len(v.Series)),
		})
	}
	return PrintTable(w, []string{"unit", "gas", "trend", "p-value", "z", "slope/yr", "points"}, rows)
}

// PrintOutliers prints outlier records.
func PrintOutliers(w io.Writer, records []dga.OutlierRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.UnitID,
			r.Gas,
			r.Timestamp.Format(TimestampLayout),
			formatValue(r.Ref, 2),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		})
	}
	return PrintTable(w, []string{"unit", "gas", "date", "ref", "value"}, rows)
}

func formatValue(v dga.Value, prec int) string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float, 'f', prec, 64)
}
