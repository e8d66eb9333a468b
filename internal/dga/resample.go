package dga

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ResampledTable is the regularised output of Resample. Each row's
// Timestamp is its period start. Rows are ordered by unit then period.
type ResampledTable struct {
	Period     Period
	GasColumns []string
	Rows       []Observation
}

func (t *ResampledTable) Gases() []string             { return t.GasColumns }
func (t *ResampledTable) Observations() []Observation { return t.Rows }

// Resample buckets each selected unit's observations into calendar periods
// and reduces each bucket to the median of its non-missing values, per gas
// and for the reference. Every period between a unit's first and last
// observation is emitted; periods without data carry missing values.
func Resample(f Frame, period Period, units, gases Selector, opts Options) (*ResampledTable, error) {
	if err := period.valid(); err != nil {
		return nil, err
	}
	sel, err := selectFrame(f, units, gases, opts)
	if err != nil {
		return nil, err
	}

	perUnit := make([][]Observation, len(sel.units))
	err = forEach(opts.Workers, len(sel.units), func(i int) error {
		perUnit[i] = resampleUnit(sel.units[i], sel.rows[sel.units[i]], period, sel.gases)
		return nil
	})
	if err != nil {
		return nil, err
	}

	table := &ResampledTable{Period: period, GasColumns: sel.gases}
	for _, rows := range perUnit {
		table.Rows = append(table.Rows, rows...)
	}
	return table, nil
}

// resampleUnit walks one unit's chronologically sorted rows across its own
// span of the calendar grid.
func resampleUnit(unit string, rows []Observation, period Period, gases []string) []Observation {
	if len(rows) == 0 {
		return nil
	}
	first := period.Floor(rows[0].Timestamp)
	last := period.Floor(rows[len(rows)-1].Timestamp)

	var out []Observation
	i := 0
	for start := first; !start.After(last); start = period.Next(start) {
		end := period.Next(start)
		j := i
		for j < len(rows) && rows[j].Timestamp.Before(end) {
			j++
		}
		out = append(out, reduceBucket(unit, start, rows[i:j], gases))
		i = j
	}
	return out
}

func reduceBucket(unit string, start time.Time, bucket []Observation, gases []string) Observation {
	row := Observation{
		Timestamp: start,
		UnitID:    unit,
		Gases:     make(map[string]Value, len(gases)),
	}
	refs := make([]float64, 0, len(bucket))
	for _, o := range bucket {
		if o.Ref.Valid {
			refs = append(refs, o.Ref.Float)
		}
	}
	row.Ref = Median(refs)
	for _, g := range gases {
		vals := make([]float64, 0, len(bucket))
		for _, o := range bucket {
			if v := o.Gas(g); v.Valid {
				vals = append(vals, v.Float)
			}
		}
		row.Gases[g] = Median(vals)
	}
	return row
}

// Median returns the median of xs, averaging the two middle values for an
// even count. An empty slice yields Missing. xs is reordered.
func Median(xs []float64) Value {
	n := len(xs)
	if n == 0 {
		return Missing
	}
	sort.Float64s(xs)
	if n%2 == 1 {
		return Some(xs[n/2])
	}
	return Some(stat.Mean(xs[n/2-1:n/2+1], nil))
}
