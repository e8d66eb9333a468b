package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/dga.report/internal/db"
	"github.com/banshee-data/dga.report/internal/dga"
	"github.com/banshee-data/dga.report/internal/report"
	"github.com/banshee-data/dga.report/internal/timeutil"
)

// clock stamps stored runs.
var clock timeutil.Clock = timeutil.RealClock{}

func handleResample(args []string, stdout io.Writer) error {
	f := newAnalysisFlags("resample", stdout)
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	l, err := f.load(cfg)
	if err != nil {
		return err
	}
	table, err := l.resample()
	if err != nil {
		return err
	}
	path, err := report.NewExporter(cfg.GetOutputDir()).ExportResampled(table, cfg.GetPeriodToken())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d rows to %s\n", len(table.Rows), path)
	return nil
}

func handleTrends(args []string, stdout io.Writer) error {
	f := newAnalysisFlags("trends", stdout)
	raw := f.fs.Bool("raw", false, "test the raw readings instead of the resampled table")
	export := f.fs.Bool("export", false, "also write "+report.TrendsFile+" to the output directory")
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	l, err := f.load(cfg)
	if err != nil {
		return err
	}
	frame, err := l.frame(*raw)
	if err != nil {
		return err
	}
	verdicts, err := dga.FindTrends(frame, cfg.GetUnitSelector(), cfg.GetGasSelector(), cfg.Options())
	if err != nil {
		return err
	}
	if *export {
		path, err := report.NewExporter(cfg.GetOutputDir()).ExportTrends(verdicts)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", path)
	}
	return report.PrintTrends(stdout, verdicts)
}

func handleOutliers(args []string, stdout io.Writer) error {
	f := newAnalysisFlags("outliers", stdout)
	raw := f.fs.Bool("raw", false, "check the raw readings instead of the resampled table")
	export := f.fs.Bool("export", false, "also write "+report.OutliersFile+" to the output directory")
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	l, err := f.load(cfg)
	if err != nil {
		return err
	}
	frame, err := l.frame(*raw)
	if err != nil {
		return err
	}
	records, err := dga.FindOutliers(frame, cfg.GetThresholds(), cfg.GetUnitSelector(), cfg.GetGasSelector(), cfg.Options())
	if err != nil {
		return err
	}
	if *export {
		path, err := report.NewExporter(cfg.GetOutputDir()).ExportOutliers(records)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", path)
	}
	return report.PrintOutliers(stdout, records)
}

func handlePlot(args []string, stdout io.Writer) error {
	f := newAnalysisFlags("plot", stdout)
	raw := f.fs.Bool("raw", false, "plot the raw readings instead of the resampled table")
	html := f.fs.Bool("html", false, "also write an interactive report.html")
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	l, err := f.load(cfg)
	if err != nil {
		return err
	}
	frame, err := l.frame(*raw)
	if err != nil {
		return err
	}
	charts, err := report.Charts(frame, cfg.GetUnitSelector(), cfg.GetGasSelector(), cfg.GetThresholds(), cfg.Options())
	if err != nil {
		return err
	}

	e := report.NewExporter(cfg.GetOutputDir())
	paths, err := e.ExportCharts(charts)
	if err != nil {
		return err
	}
	if *html && len(charts) > 0 {
		path, err := e.ExportHTML("DGA trends", charts)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	fmt.Fprintf(stdout, "Wrote %d charts\n", len(charts))
	return nil
}

func handleRun(args []string, stdout io.Writer) error {
	f := newAnalysisFlags("run", stdout)
	noStore := f.fs.Bool("no-store", false, "skip writing the run to the results database")
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	l, err := f.load(cfg)
	if err != nil {
		return err
	}
	res, err := l.analyse()
	if err != nil {
		return err
	}

	paths, err := res.export(report.NewExporter(cfg.GetOutputDir()), cfg)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}

	if !*noStore {
		database, err := db.NewDB(cfg.GetDatabase())
		if err != nil {
			return fmt.Errorf("open results database: %w", err)
		}
		defer database.Close()
		run, err := res.store(database, l, clock)
		if err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		fmt.Fprintf(stdout, "Stored run %s\n", run.ID)
	}

	fmt.Fprintln(stdout)
	if err := report.PrintTrends(stdout, res.trends); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	return report.PrintOutliers(stdout, res.outliers)
}

func handleRuns(args []string, stdout io.Writer) error {
	f := newAnalysisFlags("runs", stdout)
	limit := f.fs.Int("limit", 20, "maximum runs to list (0 for all)")
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	database, err := db.NewDB(cfg.GetDatabase())
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(*limit)
	if err != nil {
		return err
	}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source, r.Period,
			r.Units, r.Gases, strconv.Itoa(r.TrendCount), strconv.Itoa(r.OutlierCount),
		}
	}
	return report.PrintTable(stdout, []string{"run_id", "created_at", "source", "period", "units", "gases", "trends", "outliers"}, rows)
}

func handleMigrate(args []string, stdout io.Writer) error {
	f := newAnalysisFlags("migrate", stdout)
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}
	return db.RunMigrateCommand(f.fs.Args(), cfg.GetDatabase(), stdout)
}
