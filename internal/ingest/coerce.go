// Package ingest loads dissolved-gas exports into a dga.Dataset.
package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"

	"github.com/banshee-data/dga.report/internal/dga"
)

// DateLayout is the day-first layout of the field exports. Day and month
// may be written with or without a leading zero.
const DateLayout = "2/1/2006"

// missingTokens are cell spellings that mean "no reading".
var missingTokens = map[string]bool{
	"":    true,
	"na":  true,
	"n/a": true,
	"nan": true,
	"-":   true,
}

// ParseValue coerces a numeric cell. Anything that is not a finite number
// is missing.
func ParseValue(cell string) dga.Value {
	s := strings.TrimSpace(cell)
	if missingTokens[strings.ToLower(s)] {
		return dga.Missing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return dga.Missing
	}
	return dga.Some(f)
}

// ParseDate parses a date cell with layout, falling back to ISO-8601.
// Results are in UTC.
func ParseDate(cell, layout string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	t, err := time.Parse(layout, s)
	if err == nil {
		return t, nil
	}
	if iso, isoErr := iso8601.ParseString(s); isoErr == nil {
		return iso.UTC(), nil
	}
	return time.Time{}, err
}
