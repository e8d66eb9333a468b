package report

import (
	"fmt"

	"github.com/banshee-data/dga.report/internal/dga"
	"github.com/banshee-data/dga.report/internal/security"
)

// ChartSpec is one (unit, gas) trend chart.
type ChartSpec struct {
	UnitID    string
	Gas       string
	Series    []dga.SeriesPoint
	Threshold dga.Value
}

// Title is the chart heading, "<unit> - <gas> Trend".
func (c ChartSpec) Title() string {
	return fmt.Sprintf("%s - %s Trend", c.UnitID, c.Gas)
}

// YLabel is the concentration axis label.
func (c ChartSpec) YLabel() string {
	return c.Gas + " [ppm]"
}

// Filename is the PNG file name for the chart.
func (c ChartSpec) Filename() string {
	return security.SanitizeFilename(c.UnitID) + "_" + security.SanitizeFilename(c.Gas) + "_trend.png"
}

// Charts selects the pairs worth plotting: those whose paired series has
// more than opts.MinPoints points. A gas with a threshold carries it on
// its ChartSpec.
func Charts(f dga.Frame, units, gases dga.Selector, thresholds dga.Thresholds, opts dga.Options) ([]ChartSpec, error) {
	pairs, err := dga.SelectPairs(f, units, gases, opts)
	if err != nil {
		return nil, err
	}
	var out []ChartSpec
	for _, p := range pairs {
		series := p.Series()
		if len(series) <= opts.MinPoints {
			continue
		}
		spec := ChartSpec{UnitID: p.UnitID, Gas: p.Gas, Series: series}
		if th, ok := thresholds[p.Gas]; ok {
			spec.Threshold = dga.Some(th)
		}
		out = append(out, spec)
	}
	return out, nil
}

// ChartsFromVerdicts builds chart specs from trend verdicts that were tested,
// skipping insufficient_data pairs.
func ChartsFromVerdicts(verdicts []dga.TrendVerdict, thresholds dga.Thresholds) []ChartSpec {
	var out []ChartSpec
	for _, v := range verdicts {
		if v.Direction == dga.InsufficientData {
			continue
		}
		spec := ChartSpec{UnitID: v.UnitID, Gas: v.Gas, Series: v.Series}
		if th, ok := thresholds[v.Gas]; ok {
			spec.Threshold = dga.Some(th)
		}
		out = append(out, spec)
	}
	return out
}
