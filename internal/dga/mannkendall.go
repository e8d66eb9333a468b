package dga

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/dga.report/internal/monitoring"
)

// DefaultAlpha is the significance level of the Mann-Kendall test.
const DefaultAlpha = 0.05

const secondsPerYear = 365.25 * secondsPerDay

// MannKendall is the original (non-seasonal) Mann-Kendall trend test with
// tie correction, paired with a Theil-Sen slope estimate.
type MannKendall struct {
	// Alpha is the two-sided significance level.
	Alpha float64
	// NormalizeByReference tests value/ref instead of the raw value. A
	// series containing a zero reference falls back to raw values.
	NormalizeByReference bool
}

// Classify implements TrendClassifier.
func (mk MannKendall) Classify(series []SeriesPoint) (TrendResult, error) {
	if mk.Alpha <= 0 || mk.Alpha >= 1 {
		return TrendResult{}, configErrorf("alpha", "", "must be in (0, 1), got %g", mk.Alpha)
	}
	xs := mk.values(series)
	n := len(xs)
	if n < 2 {
		return TrendResult{Direction: NoTrend, PValue: 1}, nil
	}

	s := 0.0
	for k := 0; k < n-1; k++ {
		for j := k + 1; j < n; j++ {
			s += sign(xs[j] - xs[k])
		}
	}

	variance := kendallVariance(xs)
	z := 0.0
	switch {
	case variance == 0:
	case s > 0:
		z = (s - 1) / math.Sqrt(variance)
	case s < 0:
		z = (s + 1) / math.Sqrt(variance)
	}

	p := 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
	significant := math.Abs(z) > distuv.UnitNormal.Quantile(1-mk.Alpha/2)

	res := TrendResult{Direction: NoTrend, PValue: p, Statistic: z, Slope: senSlope(series, xs)}
	switch {
	case significant && z > 0:
		res.Direction = Increasing
	case significant && z < 0:
		res.Direction = Decreasing
	}
	return res, nil
}

func (mk MannKendall) values(series []SeriesPoint) []float64 {
	xs := make([]float64, len(series))
	normalize := mk.NormalizeByReference
	if normalize {
		for _, p := range series {
			if p.Ref == 0 {
				monitoring.Logf("mann-kendall: zero reference in series, testing raw values")
				normalize = false
				break
			}
		}
	}
	for i, p := range series {
		if normalize {
			xs[i] = p.Value / p.Ref
		} else {
			xs[i] = p.Value
		}
	}
	return xs
}

// kendallVariance is Var(S) with the correction for tied groups.
func kendallVariance(xs []float64) float64 {
	n := float64(len(xs))
	v := n * (n - 1) * (2*n + 5)
	counts := make(map[float64]int)
	for _, x := range xs {
		counts[x]++
	}
	for _, c := range counts {
		if c > 1 {
			t := float64(c)
			v -= t * (t - 1) * (2*t + 5)
		}
	}
	return v / 18
}

// senSlope is the median pairwise slope in units per year. Pairs sharing a
// timestamp are skipped.
func senSlope(series []SeriesPoint, xs []float64) Value {
	var slopes []float64
	for i := 0; i < len(series)-1; i++ {
		for j := i + 1; j < len(series); j++ {
			dt := series[j].Timestamp.Sub(series[i].Timestamp)
			if dt == 0 {
				continue
			}
			years := dt.Seconds() / secondsPerYear
			slopes = append(slopes, (xs[j]-xs[i])/years)
		}
	}
	return Median(slopes)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

var _ TrendClassifier = MannKendall{}
