package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/dga.report/internal/dga"
	"github.com/banshee-data/dga.report/internal/fsutil"
	"github.com/banshee-data/dga.report/internal/monitoring"
)

// CSVOptions controls how an export is read.
type CSVOptions struct {
	// DateLayout is tried before the ISO-8601 fallback.
	DateLayout string
	// Gases is the recognised gas list. Header columns outside it are ignored.
	Gases []string
	// Comma is the field delimiter.
	Comma rune
}

// DefaultCSVOptions returns comma-separated, day-first options for the
// default gases.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{DateLayout: DateLayout, Gases: dga.DefaultGases(), Comma: ','}
}

// Stats summarises a load.
type Stats struct {
	Rows    int // rows kept
	Skipped int // rows dropped for a bad date or an empty unit id
}

// LoadCSV opens path on fs and reads it with ReadCSV.
func LoadCSV(fs fsutil.FileSystem, path string, opts CSVOptions) (*dga.Dataset, Stats, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	ds, stats, err := ReadCSV(f, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ds, stats, nil
}

// ReadCSV reads an export with a header row. Date, T.Number and ref columns
// are required; recognised gas columns present in the header become the
// dataset schema. Numeric cells that do not parse are missing. Rows with an
// unparseable date or an empty unit id are skipped and counted.
func ReadCSV(r io.Reader, opts CSVOptions) (*dga.Dataset, Stats, error) {
	if opts.DateLayout == "" {
		opts.DateLayout = DateLayout
	}
	if len(opts.Gases) == 0 {
		opts.Gases = dga.DefaultGases()
	}

	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, Stats{}, &dga.DataError{Reason: "input is empty"}
	}
	if err != nil {
		return nil, Stats{}, &dga.DataError{Reason: fmt.Sprintf("unreadable header: %v", err)}
	}

	cols, err := mapColumns(header, opts.Gases)
	if err != nil {
		return nil, Stats{}, err
	}

	var (
		rows  []dga.Observation
		stats Stats
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, &dga.DataError{Reason: err.Error()}
		}
		line, _ := cr.FieldPos(0)
		if blank(record) {
			continue
		}

		o, reason := cols.observation(record, opts.DateLayout)
		if reason != "" {
			stats.Skipped++
			monitoring.Logf("ingest: skipping line %d: %s", line, reason)
			continue
		}
		rows = append(rows, o)
	}
	stats.Rows = len(rows)
	if stats.Skipped > 0 {
		monitoring.Logf("ingest: loaded %d rows, skipped %d", stats.Rows, stats.Skipped)
	}
	return dga.NewDataset(cols.gasNames(), rows), stats, nil
}

type columns struct {
	date, unit, ref int
	gases           []gasColumn
}

type gasColumn struct {
	name  string
	index int
}

func mapColumns(header []string, recognised []string) (*columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	c := &columns{}
	for _, req := range []struct {
		name string
		dst  *int
	}{
		{dga.DateColumn, &c.date},
		{dga.UnitColumn, &c.unit},
		{dga.RefColumn, &c.ref},
	} {
		i, ok := index[req.name]
		if !ok {
			return nil, &dga.DataError{Column: req.name, Reason: "required column is missing from the header"}
		}
		*req.dst = i
	}

	for _, g := range recognised {
		if i, ok := index[g]; ok {
			c.gases = append(c.gases, gasColumn{name: g, index: i})
		}
	}
	return c, nil
}

func (c *columns) gasNames() []string {
	out := make([]string, len(c.gases))
	for i, g := range c.gases {
		out[i] = g.name
	}
	return out
}

// observation converts one record. A non-empty reason means the row is skipped.
func (c *columns) observation(record []string, layout string) (dga.Observation, string) {
	cell := func(i int) string {
		if i < len(record) {
			return record[i]
		}
		return ""
	}

	unit := strings.TrimSpace(cell(c.unit))
	if unit == "" {
		return dga.Observation{}, "empty unit id"
	}
	ts, err := ParseDate(cell(c.date), layout)
	if err != nil {
		return dga.Observation{}, fmt.Sprintf("unparseable date %q", cell(c.date))
	}

	o := dga.Observation{
		Timestamp: ts,
		UnitID:    unit,
		Ref:       ParseValue(cell(c.ref)),
		Gases:     make(map[string]dga.Value, len(c.gases)),
	}
	for _, g := range c.gases {
		o.Gases[g.name] = ParseValue(cell(g.index))
	}
	return o, ""
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
