package dga

import (
	"sync"
	"sync/atomic"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// reading builds an observation with a reference and the given gas values.
// NaN-free; use withMissing to blank a gas.
func reading(unit string, ts time.Time, ref float64, gases map[string]float64) Observation {
	o := Observation{Timestamp: ts, UnitID: unit, Ref: Some(ref), Gases: make(map[string]Value)}
	for g, v := range gases {
		o.Gases[g] = Some(v)
	}
	return o
}

func withoutRef(o Observation) Observation {
	o.Ref = Missing
	return o
}

func withMissing(o Observation, gas string) Observation {
	gases := make(map[string]Value, len(o.Gases))
	for g, v := range o.Gases {
		gases[g] = v
	}
	gases[gas] = Missing
	o.Gases = gases
	return o
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Gases = DefaultGases()
	return opts
}

// monthlySeries returns n monthly hydrogen readings for unit starting at
// start, with values from fn.
func monthlySeries(unit string, start time.Time, n int, fn func(i int) float64) []Observation {
	rows := make([]Observation, n)
	for i := range rows {
		rows[i] = reading(unit, start.AddDate(0, i, 0), 1, map[string]float64{Hydrogen: fn(i)})
	}
	return rows
}

// countingClassifier returns a fixed result and counts invocations.
type countingClassifier struct {
	result TrendResult
	err    error
	calls  atomic.Int64
}

func (c *countingClassifier) Classify(series []SeriesPoint) (TrendResult, error) {
	c.calls.Add(1)
	return c.result, c.err
}

// recordingClassifier keeps a copy of every series it is asked to classify.
type recordingClassifier struct {
	mu     sync.Mutex
	series [][]SeriesPoint
}

func (c *recordingClassifier) Classify(series []SeriesPoint) (TrendResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = append(c.series, append([]SeriesPoint(nil), series...))
	return TrendResult{Direction: NoTrend, PValue: 1}, nil
}
