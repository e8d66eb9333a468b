package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	seriesColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	thresholdColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// RenderPNG draws the chart's series against date with markers, plus a
// dashed red horizontal line at the threshold when one is set.
func RenderPNG(w io.Writer, c ChartSpec) error {
	p, err := newTrendPlot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

func newTrendPlot(c ChartSpec) (*plot.Plot, error) {
	if len(c.Series) == 0 {
		return nil, fmt.Errorf("chart %s has no points", c.Title())
	}

	p := plot.New()
	p.Title.Text = c.Title()
	p.X.Label.Text = "Date"
	p.Y.Label.Text = c.YLabel()
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(c.Series))
	for i, s := range c.Series {
		pts[i] = plotter.XY{X: float64(s.Timestamp.Unix()), Y: s.Value}
	}
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create line for %s: %w", c.Title(), err)
	}
	line.Color = seriesColor
	line.Width = vg.Points(1.5)
	scatter.Color = seriesColor
	scatter.Radius = vg.Points(3)
	p.Add(line, scatter)
	p.Legend.Add(fmt.Sprintf("%s Levels", c.Gas), line, scatter)

	if c.Threshold.Valid {
		th := c.Threshold.Float
		fn := plotter.NewFunction(func(float64) float64 { return th })
		fn.Color = thresholdColor
		fn.Width = vg.Points(1.5)
		fn.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(fn)
		p.Legend.Add("Threshold", fn)

		// functions do not report a data range
		if th > p.Y.Max {
			p.Y.Max = th * 1.05
		}
		if th < p.Y.Min {
			p.Y.Min = th
		}
	}
	p.Legend.Top = true
	return p, nil
}
