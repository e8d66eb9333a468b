package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/dga.report/internal/config"
	"github.com/banshee-data/dga.report/internal/fsutil"
	"github.com/banshee-data/dga.report/internal/ingest"
	"github.com/banshee-data/dga.report/internal/monitoring"
)

// analysisFlags are the flags shared by every analysis subcommand. Values
// left unset fall back to the config file, then to built-in defaults.
type analysisFlags struct {
	fs *flag.FlagSet

	configPath string
	input      string
	period     string
	units      string
	gases      string
	minPoints  int
	workers    int
	out        string
	database   string
}

func newAnalysisFlags(name string, output io.Writer) *analysisFlags {
	f := &analysisFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(output)
	f.fs.StringVar(&f.configPath, "config", "", "analysis config file (JSON)")
	f.fs.StringVar(&f.input, "input", "", "input CSV export")
	f.fs.StringVar(&f.period, "period", "", "resampling period token")
	f.fs.StringVar(&f.units, "units", "", `"All" or comma-separated unit ids`)
	f.fs.StringVar(&f.gases, "gases", "", `"All" or comma-separated gas names`)
	f.fs.IntVar(&f.minPoints, "min-points", 0, "paired points a series must exceed to be tested")
	f.fs.IntVar(&f.workers, "workers", 0, "unit/gas pairs evaluated concurrently")
	f.fs.StringVar(&f.out, "out", "", "output directory")
	f.fs.StringVar(&f.database, "db", "", "results database")
	return f
}

// parse parses args and returns the merged, validated configuration.
func (f *analysisFlags) parse(args []string) (*config.AnalysisConfig, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.EmptyAnalysisConfig()
	if f.configPath != "" {
		loaded, err := config.LoadAnalysisConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "period":
			cfg.Period = &f.period
		case "units":
			cfg.SelectUnit = &f.units
		case "gases":
			cfg.SelectGas = &f.gases
		case "min-points":
			cfg.MinPoints = &f.minPoints
		case "workers":
			cfg.Workers = &f.workers
		case "out":
			cfg.OutputDir = &f.out
		case "db":
			cfg.Database = &f.database
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// requireInput returns an error unless -input was given.
func (f *analysisFlags) requireInput() error {
	if f.input == "" {
		return fmt.Errorf("-input is required")
	}
	return nil
}

// load reads the input CSV for the configured gases.
func (f *analysisFlags) load(cfg *config.AnalysisConfig) (*loaded, error) {
	if err := f.requireInput(); err != nil {
		return nil, err
	}
	opts := ingest.DefaultCSVOptions()
	opts.Gases = cfg.GetGases()

	ds, stats, err := ingest.LoadCSV(fsutil.OSFileSystem{}, f.input, opts)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		monitoring.Logf("%s: skipped %d of %d rows", f.input, stats.Skipped, stats.Rows+stats.Skipped)
	}
	return &loaded{source: f.input, cfg: cfg, dataset: ds}, nil
}
