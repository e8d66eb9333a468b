// Package dga implements the dissolved-gas analysis pipeline: calendar
// resampling of transformer gas readings, monotonic trend detection and
// threshold outlier detection.
package dga

import (
	"strconv"
	"strings"
)

// Input column names
const (
	DateColumn = "Date"
	UnitColumn = "T.Number"
	RefColumn  = "ref"
)

// Gas column names
const (
	Hydrogen       = "Hydrogen"
	Methane        = "Methane"
	Ethane         = "Ethane"
	Ethylene       = "Ethylene"
	Acetylene      = "Acetylene"
	CarbonDioxide  = "Carbon.dioxide"
	CarbonMonoxide = "Carbon.monoxide"
)

// DefaultMinPoints is the number of paired observations a series must
// exceed before a trend test is run.
const DefaultMinPoints = 6

// DefaultGases returns the recognised gases in canonical column order.
// A fresh slice is returned on every call.
func DefaultGases() []string {
	return []string{Hydrogen, Methane, Ethane, Ethylene, Acetylene, CarbonDioxide, CarbonMonoxide}
}

// IsRecognised reports whether gas appears in the recognised list.
func IsRecognised(gas string, recognised []string) bool {
	for _, g := range recognised {
		if g == gas {
			return true
		}
	}
	return false
}

// Value is a reading that may be missing. The zero Value is missing.
type Value struct {
	Float float64
	Valid bool
}

// Missing is the absent reading.
var Missing = Value{}

// Some returns a present reading.
func Some(f float64) Value {
	return Value{Float: f, Valid: true}
}

// String formats the value for delimited output; missing values are empty.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// Thresholds maps gas name to the concentration above which a reading is an
// outlier. Gases without an entry are not checked.
type Thresholds map[string]float64

// Names returns the gases with a threshold in recognised order.
func (t Thresholds) Names(recognised []string) []string {
	var out []string
	for _, g := range recognised {
		if _, ok := t[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
