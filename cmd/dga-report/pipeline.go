package main

import (
	"fmt"

	"github.com/banshee-data/dga.report/internal/config"
	"github.com/banshee-data/dga.report/internal/db"
	"github.com/banshee-data/dga.report/internal/dga"
	"github.com/banshee-data/dga.report/internal/report"
	"github.com/banshee-data/dga.report/internal/timeutil"
)

// loaded is an input dataset with the configuration it was read under.
type loaded struct {
	source  string
	cfg     *config.AnalysisConfig
	dataset *dga.Dataset
}

// resample puts the dataset on the configured period grid.
func (l *loaded) resample() (*dga.ResampledTable, error) {
	return dga.Resample(l.dataset, l.cfg.GetPeriod(), l.cfg.GetUnitSelector(), l.cfg.GetGasSelector(), l.cfg.Options())
}

// frame returns the raw dataset when raw is set and the resampled table
// otherwise.
func (l *loaded) frame(raw bool) (dga.Frame, error) {
	if raw {
		return l.dataset, nil
	}
	return l.resample()
}

// results is the output of a full run.
type results struct {
	table    *dga.ResampledTable
	trends   []dga.TrendVerdict
	outliers []dga.OutlierRecord
}

// analyse resamples, then finds trends and outliers on the resampled table.
func (l *loaded) analyse() (*results, error) {
	table, err := l.resample()
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	units, gases, opts := l.cfg.GetUnitSelector(), l.cfg.GetGasSelector(), l.cfg.Options()

	trends, err := dga.FindTrends(table, units, gases, opts)
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}
	outliers, err := dga.FindOutliers(table, l.cfg.GetThresholds(), units, gases, opts)
	if err != nil {
		return nil, fmt.Errorf("outliers: %w", err)
	}
	return &results{table: table, trends: trends, outliers: outliers}, nil
}

// export writes every artefact of a run under the output directory and
// returns the paths written.
func (r *results) export(e *report.Exporter, cfg *config.AnalysisConfig) ([]string, error) {
	var paths []string
	path, err := e.ExportResampled(r.table, cfg.GetPeriodToken())
	if err != nil {
		return paths, err
	}
	paths = append(paths, path)

	if path, err = e.ExportTrends(r.trends); err != nil {
		return paths, err
	}
	paths = append(paths, path)

	if path, err = e.ExportOutliers(r.outliers); err != nil {
		return paths, err
	}
	paths = append(paths, path)

	charts := report.ChartsFromVerdicts(r.trends, cfg.GetThresholds())
	chartPaths, err := e.ExportCharts(charts)
	paths = append(paths, chartPaths...)
	if err != nil {
		return paths, err
	}
	if len(charts) > 0 {
		if path, err = e.ExportHTML("DGA trends", charts); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// store records a run and its results.
func (r *results) store(database *db.DB, l *loaded, clock timeutil.Clock) (*db.Run, error) {
	run := &db.Run{
		CreatedAt: clock.Now(),
		Source:    l.source,
		Period:    l.cfg.GetPeriodToken(),
		MinPoints: l.cfg.GetMinPoints(),
		Units:     l.cfg.GetUnitSelector().String(),
		Gases:     l.cfg.GetGasSelector().String(),
	}
	if err := database.CreateRun(run); err != nil {
		return nil, err
	}
	if err := database.RecordTrends(run.ID, r.trends); err != nil {
		return nil, err
	}
	if err := database.RecordOutliers(run.ID, r.outliers); err != nil {
		return nil, err
	}
	return run, nil
}
