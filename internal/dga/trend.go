package dga

import (
	"fmt"
	"time"
)

// Direction classifies a monotonic tendency.
type Direction string

const (
	Increasing       Direction = "increasing"
	Decreasing       Direction = "decreasing"
	NoTrend          Direction = "no_trend"
	InsufficientData Direction = "insufficient_data"
)

// SeriesPoint is one (date, reference, value) triple of a cleaned series.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Ref       float64   `json:"ref"`
	Value     float64   `json:"value"`
}

// TrendResult is the outcome of a trend test.
type TrendResult struct {
	Direction Direction
	// PValue is the two-sided significance of the test statistic.
	PValue float64
	// Statistic is the test statistic, Z for Mann-Kendall.
	Statistic float64
	// Slope is the estimated change per year, missing when undefined.
	Slope Value
}

// TrendClassifier decides whether a chronologically ordered series has a
// monotonic trend.
type TrendClassifier interface {
	Classify(series []SeriesPoint) (TrendResult, error)
}

// TrendVerdict is the per (unit, gas) outcome of FindTrends.
type TrendVerdict struct {
	UnitID    string
	Gas       string
	Direction Direction
	// Confidence holds the test's p-value; missing for insufficient data.
	Confidence Value
	Statistic  Value
	Slope      Value
	Series     []SeriesPoint
}

// PairedSeries returns the (date, reference, value) triples of rows for the
// given gas, dropping any row where the reference or the gas value is
// missing. Rows must already be in chronological order.
func PairedSeries(rows []Observation, gas string) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(rows))
	for _, o := range rows {
		v := o.Gas(gas)
		if !o.Ref.Valid || !v.Valid {
			continue
		}
		out = append(out, SeriesPoint{Timestamp: o.Timestamp, Ref: o.Ref.Float, Value: v.Float})
	}
	return out
}

// FindTrends tests every selected (unit, gas) pair for a monotonic trend.
// Pairs whose cleaned series has no more than opts.MinPoints points get an
// insufficient_data verdict without running the classifier. Verdicts are
// ordered unit then gas, in selector order.
func FindTrends(f Frame, units, gases Selector, opts Options) ([]TrendVerdict, error) {
	sel, err := selectFrame(f, units, gases, opts)
	if err != nil {
		return nil, err
	}
	classifier := opts.classifier()
	pairs := sel.pairs()
	verdicts := make([]TrendVerdict, len(pairs))

	err = forEach(opts.Workers, len(pairs), func(i int) error {
		v, err := evaluatePair(pairs[i], classifier, opts.MinPoints)
		if err != nil {
			return err
		}
		verdicts[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return verdicts, nil
}

func evaluatePair(p Pair, classifier TrendClassifier, minPoints int) (TrendVerdict, error) {
	series := p.Series()
	verdict := TrendVerdict{UnitID: p.UnitID, Gas: p.Gas, Series: series}
	if len(series) <= minPoints {
		verdict.Direction = InsufficientData
		return verdict, nil
	}

	res, err := classifier.Classify(series)
	if err != nil {
		return TrendVerdict{}, fmt.Errorf("trend test for unit %s gas %s: %w", p.UnitID, p.Gas, err)
	}
	switch res.Direction {
	case Increasing, Decreasing, NoTrend:
	default:
		return TrendVerdict{}, fmt.Errorf("trend test for unit %s gas %s: unexpected direction %q", p.UnitID, p.Gas, res.Direction)
	}
	verdict.Direction = res.Direction
	verdict.Confidence = Some(res.PValue)
	verdict.Statistic = Some(res.Statistic)
	verdict.Slope = res.Slope
	return verdict, nil
}
