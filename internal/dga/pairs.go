package dga

import (
	"golang.org/x/sync/errgroup"
)

// Options carries the per-call configuration of the pipeline. The
// recognised gas list and the minimum point count are passed explicitly so
// callers and tests can vary them.
type Options struct {
	// Gases is the recognised gas list, in canonical order.
	Gases []string
	// MinPoints is the number of paired observations a series must exceed
	// before it is tested for a trend.
	MinPoints int
	// Workers bounds the number of (unit, gas) pairs evaluated at once.
	// Values below 1 run sequentially.
	Workers int
	// Classifier runs the trend test. Nil selects Mann-Kendall at DefaultAlpha.
	Classifier TrendClassifier
}

// DefaultOptions returns the recognised gases, a minimum of six points and
// sequential evaluation with the Mann-Kendall classifier.
func DefaultOptions() Options {
	return Options{
		Gases:      DefaultGases(),
		MinPoints:  DefaultMinPoints,
		Workers:    1,
		Classifier: MannKendall{Alpha: DefaultAlpha},
	}
}

func (o Options) validate() error {
	if len(o.Gases) == 0 {
		return configErrorf("gases", "", "recognised gas list is empty")
	}
	if o.MinPoints < 0 {
		return configErrorf("min_points", "", "must be non-negative, got %d", o.MinPoints)
	}
	return nil
}

func (o Options) classifier() TrendClassifier {
	if o.Classifier == nil {
		return MannKendall{Alpha: DefaultAlpha}
	}
	return o.Classifier
}

// Pair is one selected (unit, gas) combination with the unit's rows in
// chronological order.
type Pair struct {
	UnitID string
	Gas    string
	Rows   []Observation
}

// Series returns the pair's paired, chronologically ordered series.
func (p Pair) Series() []SeriesPoint {
	return PairedSeries(p.Rows, p.Gas)
}

// selection is the validated outcome of applying unit and gas selectors to a
// frame.
type selection struct {
	units []string
	gases []string
	rows  map[string][]Observation
}

// pairs enumerates (unit, gas) in unit-then-gas order.
func (s *selection) pairs() []Pair {
	out := make([]Pair, 0, len(s.units)*len(s.gases))
	for _, u := range s.units {
		for _, g := range s.gases {
			out = append(out, Pair{UnitID: u, Gas: g, Rows: s.rows[u]})
		}
	}
	return out
}

// resolveGases expands a gas selector. Explicit names must be recognised
// and present in the frame schema; "All" yields the recognised gases present
// in the schema, in recognised order.
func resolveGases(sel Selector, schema []string, opts Options) ([]string, error) {
	names, err := sel.resolve("gas", opts.Gases)
	if err != nil {
		return nil, err
	}
	if sel.IsAll() {
		var present []string
		for _, g := range names {
			if IsRecognised(g, schema) {
				present = append(present, g)
			}
		}
		return present, nil
	}
	for _, g := range names {
		if !IsRecognised(g, schema) {
			return nil, configErrorf("gas", g, "not present in the input schema")
		}
	}
	return names, nil
}

// selectFrame validates the configuration, then the frame structure, and
// resolves both selectors. Nothing is computed when an error is returned.
func selectFrame(f Frame, units, gases Selector, opts Options) (*selection, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	gasList, err := resolveGases(gases, f.Gases(), opts)
	if err != nil {
		return nil, err
	}
	rows := f.Observations()
	if err := checkStructure(rows); err != nil {
		return nil, err
	}
	order, byUnit := partition(rows)
	unitList, err := units.resolve("unit", order)
	if err != nil {
		return nil, err
	}
	sorted := make(map[string][]Observation, len(unitList))
	for _, u := range unitList {
		sorted[u] = chronological(byUnit[u])
	}
	return &selection{units: unitList, gases: gasList, rows: sorted}, nil
}

// SelectPairs resolves the selectors against a frame and returns every
// (unit, gas) pair in canonical order.
func SelectPairs(f Frame, units, gases Selector, opts Options) ([]Pair, error) {
	sel, err := selectFrame(f, units, gases, opts)
	if err != nil {
		return nil, err
	}
	return sel.pairs(), nil
}

// forEach runs fn for indices 0..n-1 on at most workers goroutines. Callers
// write results into per-index slots so output order never depends on
// completion order. The first error is returned.
func forEach(workers, n int, fn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
