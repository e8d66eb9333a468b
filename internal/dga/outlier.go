package dga

import (
	"math"
	"sort"
	"time"
)

// OutlierRecord is a single gas reading above its threshold. One
// observation can produce a record per exceeded gas.
type OutlierRecord struct {
	UnitID    string
	Gas       string
	Timestamp time.Time
	Ref       Value
	Value     float64
}

// FindOutliers returns every reading strictly greater than its gas
// threshold for the selected units and gases. Gases without a threshold are
// skipped. Records are ordered unit, gas, timestamp; no matches yields an
// empty, non-nil slice.
func FindOutliers(f Frame, thresholds Thresholds, units, gases Selector, opts Options) ([]OutlierRecord, error) {
	if err := validateThresholds(thresholds, opts); err != nil {
		return nil, err
	}
	sel, err := selectFrame(f, units, gases, opts)
	if err != nil {
		return nil, err
	}

	var checked []Pair
	for _, p := range sel.pairs() {
		if _, ok := thresholds[p.Gas]; ok {
			checked = append(checked, p)
		}
	}

	perPair := make([][]OutlierRecord, len(checked))
	err = forEach(opts.Workers, len(checked), func(i int) error {
		perPair[i] = exceedances(checked[i], thresholds[checked[i].Gas])
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]OutlierRecord, 0)
	for _, recs := range perPair {
		out = append(out, recs...)
	}
	return out, nil
}

func exceedances(p Pair, threshold float64) []OutlierRecord {
	var out []OutlierRecord
	for _, o := range p.Rows {
		v := o.Gas(p.Gas)
		if !v.Valid || v.Float <= threshold {
			continue
		}
		out = append(out, OutlierRecord{
			UnitID:    p.UnitID,
			Gas:       p.Gas,
			Timestamp: o.Timestamp,
			Ref:       o.Ref,
			Value:     v.Float,
		})
	}
	return out
}

func validateThresholds(t Thresholds, opts Options) error {
	names := make([]string, 0, len(t))
	for g := range t {
		names = append(names, g)
	}
	sort.Strings(names)
	for _, g := range names {
		if !IsRecognised(g, opts.Gases) {
			return configErrorf("threshold", g, "not a recognised gas")
		}
		if v := t[g]; math.IsNaN(v) || math.IsInf(v, 0) {
			return configErrorf("threshold", g, "threshold must be finite")
		}
	}
	return nil
}
