package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/dga.report/internal/dga"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

// AnalysisConfig is the root configuration of an analysis run. Every field
// is optional; the Get* methods supply defaults for omitted fields.
type AnalysisConfig struct {
	// Resampling
	Period *string `json:"period,omitempty"` // period token like "6M" or "P6M"

	// Selection
	Gases      []string `json:"gases,omitempty"`      // recognised gas list
	SelectGas  *string  `json:"select_gas,omitempty"` // "All" or comma-separated
	SelectUnit *string  `json:"select_unit,omitempty"`

	// Trend test
	MinPoints            *int     `json:"min_points,omitempty"`
	Alpha                *float64 `json:"alpha,omitempty"`
	NormalizeByReference *bool    `json:"normalize_by_reference,omitempty"`

	// Outliers
	Thresholds map[string]float64 `json:"thresholds,omitempty"`

	// Execution and output
	Workers   *int    `json:"workers,omitempty"`
	OutputDir *string `json:"output_dir,omitempty"`
	Database  *string `json:"database,omitempty"`
}

// EmptyAnalysisConfig returns an AnalysisConfig with all fields unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
// Fields omitted from the JSON file fall back to defaults, so partial
// configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Period tokens and
// gas names are checked with the same rules the pipeline applies.
func (c *AnalysisConfig) Validate() error {
	if c.Period != nil && *c.Period != "" {
		if _, err := dga.ParsePeriod(*c.Period); err != nil {
			return err
		}
	}

	if c.MinPoints != nil && *c.MinPoints < 0 {
		return fmt.Errorf("min_points must be non-negative, got %d", *c.MinPoints)
	}

	if c.Alpha != nil && (*c.Alpha <= 0 || *c.Alpha >= 1) {
		return fmt.Errorf("alpha must be between 0 and 1 (exclusive), got %f", *c.Alpha)
	}

	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}

	gases := c.GetGases()
	for g := range c.Thresholds {
		if !dga.IsRecognised(g, gases) {
			return &dga.ConfigurationError{Field: "thresholds", Value: g, Reason: "not a recognised gas"}
		}
	}

	if c.SelectGas != nil {
		sel := dga.ParseSelector(*c.SelectGas)
		for _, g := range sel.Names() {
			if !dga.IsRecognised(g, gases) {
				return &dga.ConfigurationError{Field: "select_gas", Value: g, Reason: "not a recognised gas"}
			}
		}
		if !sel.IsAll() && len(sel.Names()) == 0 {
			return &dga.ConfigurationError{Field: "select_gas", Reason: "selector is empty"}
		}
	}

	return nil
}

// GetPeriod parses and returns the resampling period, "6M" by default.
func (c *AnalysisConfig) GetPeriod() dga.Period {
	if c.Period == nil || strings.TrimSpace(*c.Period) == "" {
		return dga.Period{Count: 6, Unit: dga.Month}
	}
	p, err := dga.ParsePeriod(*c.Period)
	if err != nil {
		return dga.Period{Count: 6, Unit: dga.Month} // default on parse error
	}
	return p
}

// GetPeriodToken returns the period as written in the config, "6M" by default.
func (c *AnalysisConfig) GetPeriodToken() string {
	if c.Period == nil || strings.TrimSpace(*c.Period) == "" {
		return "6M"
	}
	return strings.TrimSpace(*c.Period)
}

// GetGases returns the recognised gas list or the default seven gases.
func (c *AnalysisConfig) GetGases() []string {
	if len(c.Gases) == 0 {
		return dga.DefaultGases()
	}
	return append([]string(nil), c.Gases...)
}

// GetGasSelector returns the gas selector, "All" by default.
func (c *AnalysisConfig) GetGasSelector() dga.Selector {
	if c.SelectGas == nil {
		return dga.All()
	}
	return dga.ParseSelector(*c.SelectGas)
}

// GetUnitSelector returns the unit selector, "All" by default.
func (c *AnalysisConfig) GetUnitSelector() dga.Selector {
	if c.SelectUnit == nil {
		return dga.All()
	}
	return dga.ParseSelector(*c.SelectUnit)
}

// GetMinPoints returns the min_points value or the default.
func (c *AnalysisConfig) GetMinPoints() int {
	if c.MinPoints == nil {
		return dga.DefaultMinPoints
	}
	return *c.MinPoints
}

// GetAlpha returns the alpha value or the default.
func (c *AnalysisConfig) GetAlpha() float64 {
	if c.Alpha == nil {
		return dga.DefaultAlpha
	}
	return *c.Alpha
}

// GetNormalizeByReference returns the normalize_by_reference value or the default.
func (c *AnalysisConfig) GetNormalizeByReference() bool {
	if c.NormalizeByReference == nil {
		return false
	}
	return *c.NormalizeByReference
}

// GetThresholds returns a copy of the gas thresholds. Empty when unset.
func (c *AnalysisConfig) GetThresholds() dga.Thresholds {
	out := make(dga.Thresholds, len(c.Thresholds))
	for g, v := range c.Thresholds {
		out[g] = v
	}
	return out
}

// GetWorkers returns the workers value or the default.
func (c *AnalysisConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetOutputDir returns the output_dir value or the default.
func (c *AnalysisConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "output"
	}
	return *c.OutputDir
}

// GetDatabase returns the database value or the default.
func (c *AnalysisConfig) GetDatabase() string {
	if c.Database == nil || *c.Database == "" {
		return "dga_results.db"
	}
	return *c.Database
}

// Options builds the explicit pipeline options for this configuration.
func (c *AnalysisConfig) Options() dga.Options {
	return dga.Options{
		Gases:     c.GetGases(),
		MinPoints: c.GetMinPoints(),
		Workers:   c.GetWorkers(),
		Classifier: dga.MannKendall{
			Alpha:                c.GetAlpha(),
			NormalizeByReference: c.GetNormalizeByReference(),
		},
	}
}
