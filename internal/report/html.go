package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// RenderHTML renders every chart as an interactive line chart on a single
// page. Thresholds are drawn as horizontal mark lines.
func RenderHTML(w io.Writer, title string, specs []ChartSpec) error {
	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsHost)
	page.PageTitle = title

	for _, c := range specs {
		page.AddCharts(newTrendLine(c))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

func newTrendLine(c ChartSpec) *charts.Line {
	x := make([]string, len(c.Series))
	y := make([]opts.LineData, len(c.Series))
	for i, s := range c.Series {
		x[i] = s.Timestamp.Format(TimestampLayout)
		y[i] = opts.LineData{Value: s.Value}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "450px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: c.Title(), Subtitle: fmt.Sprintf("points=%d", len(c.Series))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YLabel(), NameLocation: "middle", NameGap: 40}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
	}
	if c.Threshold.Valid {
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "Threshold", YAxis: c.Threshold.Float}),
		)
	}
	line.SetXAxis(x).AddSeries(fmt.Sprintf("%s Levels", c.Gas), y, seriesOpts...)
	return line
}
