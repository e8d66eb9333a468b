package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/dga.report/internal/dga"
	"github.com/banshee-data/dga.report/internal/fsutil"
	"github.com/banshee-data/dga.report/internal/security"
)

// Output file names.
const (
	TrendsFile   = "Trends.csv"
	OutliersFile = "Outliers.csv"
	ChartsDir    = "charts"
)

// ResampledFile returns the resampled table file name for a period token,
// for example "6M_ProcessedData.csv".
func ResampledFile(period string) string {
	return security.SanitizeFilename(period) + "_ProcessedData.csv"
}

// Exporter writes report artefacts under Dir.
type Exporter struct {
	FS  fsutil.FileSystem
	Dir string
}

// NewExporter returns an Exporter on the OS filesystem.
func NewExporter(dir string) *Exporter {
	return &Exporter{FS: fsutil.OSFileSystem{}, Dir: dir}
}

// create validates name against Dir and opens it for writing.
func (e *Exporter) create(name string) (string, io.WriteCloser, error) {
	path := filepath.Join(e.Dir, name)
	if err := security.ValidatePathWithinDirectory(path, e.Dir); err != nil {
		return "", nil, err
	}
	if err := e.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := e.FS.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return path, f, nil
}

func (e *Exporter) write(name string, fn func(io.Writer) error) (string, error) {
	path, f, err := e.create(name)
	if err != nil {
		return "", err
	}
	if err := fn(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// ExportResampled writes the resampled table as <period>_ProcessedData.csv.
func (e *Exporter) ExportResampled(t *dga.ResampledTable, period string) (string, error) {
	return e.write(ResampledFile(period), func(w io.Writer) error {
		return WriteResampledCSV(w, t)
	})
}

// ExportTrends writes Trends.csv.
func (e *Exporter) ExportTrends(verdicts []dga.TrendVerdict) (string, error) {
	return e.write(TrendsFile, func(w io.Writer) error {
		return WriteTrendsCSV(w, verdicts)
	})
}

// ExportOutliers writes Outliers.csv.
func (e *Exporter) ExportOutliers(records []dga.OutlierRecord) (string, error) {
	return e.write(OutliersFile, func(w io.Writer) error {
		return WriteOutliersCSV(w, records)
	})
}

// ExportCharts writes one PNG per chart under charts/ and returns the paths
// in chart order.
func (e *Exporter) ExportCharts(charts []ChartSpec) ([]string, error) {
	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path, err := e.write(filepath.Join(ChartsDir, c.Filename()), func(w io.Writer) error {
			return RenderPNG(w, c)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExportHTML writes all charts to a single report.html page.
func (e *Exporter) ExportHTML(title string, charts []ChartSpec) (string, error) {
	return e.write("report.html", func(w io.Writer) error {
		return RenderHTML(w, title, charts)
	})
}
