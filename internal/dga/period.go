package dga

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

// PeriodUnit is the calendar unit a Period counts in.
type PeriodUnit int

const (
	Day PeriodUnit = iota + 1
	Week
	Month
)

// Period is a calendar-aligned bucket width. Bucket boundaries are absolute:
// every unit resampled with the same Period lands on the same grid.
type Period struct {
	Count int
	Unit  PeriodUnit
}

var periodPattern = regexp.MustCompile(`^(\d*)\s*([a-z]+)$`)

// periodAliases maps pandas offset aliases and plain words to a unit and a
// multiplier.
var periodAliases = map[string]struct {
	unit PeriodUnit
	mult int
}{
	"d": {Day, 1}, "day": {Day, 1}, "days": {Day, 1},
	"w": {Week, 1}, "week": {Week, 1}, "weeks": {Week, 1},
	"m": {Month, 1}, "ms": {Month, 1}, "me": {Month, 1},
	"mon": {Month, 1}, "month": {Month, 1}, "months": {Month, 1},
	"q": {Month, 3}, "qs": {Month, 3}, "qe": {Month, 3},
	"quarter": {Month, 3}, "quarters": {Month, 3},
	"y": {Month, 12}, "ys": {Month, 12}, "ye": {Month, 12},
	"a": {Month, 12}, "as": {Month, 12},
	"year": {Month, 12}, "years": {Month, 12},
}

// ParsePeriod reads a period token such as "6M", "6 months", "1Y", "2W" or
// the ISO-8601 form "P6M". Unrecognised tokens yield a *ConfigurationError.
func ParsePeriod(token string) (Period, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return Period{}, configErrorf("period", token, "empty period token")
	}
	if strings.HasPrefix(t, "p") && len(t) > 1 && t[1] >= '0' && t[1] <= '9' {
		return parseISOPeriod(token)
	}

	m := periodPattern.FindStringSubmatch(t)
	if m == nil {
		return Period{}, configErrorf("period", token, "not a recognised period token")
	}
	alias, ok := periodAliases[m[2]]
	if !ok {
		return Period{}, configErrorf("period", token, "unknown period unit %q", m[2])
	}
	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return Period{}, configErrorf("period", token, "count must be a positive integer")
		}
		count = n
	}
	return Period{Count: count * alias.mult, Unit: alias.unit}, nil
}

// parseISOPeriod accepts ISO-8601 durations with exactly one date component.
func parseISOPeriod(token string) (Period, error) {
	d, err := duration.Parse(strings.ToUpper(strings.TrimSpace(token)))
	if err != nil {
		return Period{}, configErrorf("period", token, "invalid ISO-8601 duration: %v", err)
	}
	if d.Negative || d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 {
		return Period{}, configErrorf("period", token, "only positive calendar components (Y, M, W, D) are supported")
	}

	var p Period
	components := 0
	for _, c := range []struct {
		v    float64
		unit PeriodUnit
		mult int
	}{
		{d.Years, Month, 12},
		{d.Months, Month, 1},
		{d.Weeks, Week, 1},
		{d.Days, Day, 1},
	} {
		if c.v == 0 {
			continue
		}
		if c.v != math.Trunc(c.v) {
			return Period{}, configErrorf("period", token, "fractional components are not supported")
		}
		components++
		p = Period{Count: int(c.v) * c.mult, Unit: c.unit}
	}
	if components != 1 {
		return Period{}, configErrorf("period", token, "exactly one calendar component is required")
	}
	return p, nil
}

// MustParsePeriod is like ParsePeriod but panics on error. Intended for
// tests and package-level defaults.
func MustParsePeriod(token string) Period {
	p, err := ParsePeriod(token)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Period) String() string {
	switch p.Unit {
	case Day:
		return fmt.Sprintf("%dD", p.Count)
	case Week:
		return fmt.Sprintf("%dW", p.Count)
	case Month:
		if p.Count%12 == 0 {
			return fmt.Sprintf("%dY", p.Count/12)
		}
		return fmt.Sprintf("%dM", p.Count)
	}
	return "invalid"
}

func (p Period) valid() error {
	if p.Count < 1 || p.Unit < Day || p.Unit > Month {
		return configErrorf("period", p.String(), "period must have a positive count and a known unit")
	}
	return nil
}

const secondsPerDay = 24 * 60 * 60

// mondayOffset is the day index of 1970-01-05, the first Monday after the
// Unix epoch.
const mondayOffset = 4

// Floor returns the start of the bucket containing t, in t's location.
func (p Period) Floor(t time.Time) time.Time {
	loc := t.Location()
	y, m, d := t.Date()
	switch p.Unit {
	case Month:
		idx := y*12 + int(m) - 1
		b := floorDiv(idx, p.Count) * p.Count
		return time.Date(b/12, time.Month(b%12+1), 1, 0, 0, 0, 0, loc)
	case Week:
		days := civilDays(y, m, d) - mondayOffset
		b := floorDiv(days, 7*p.Count)*7*p.Count + mondayOffset
		return dayStart(b, loc)
	default:
		days := civilDays(y, m, d)
		return dayStart(floorDiv(days, p.Count)*p.Count, loc)
	}
}

// Next returns the start of the bucket after the one starting at start.
func (p Period) Next(start time.Time) time.Time {
	switch p.Unit {
	case Month:
		return start.AddDate(0, p.Count, 0)
	case Week:
		return start.AddDate(0, 0, 7*p.Count)
	default:
		return start.AddDate(0, 0, p.Count)
	}
}

// civilDays returns the number of days between 1970-01-01 and the date.
func civilDays(y int, m time.Month, d int) int {
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

func dayStart(days int, loc *time.Location) time.Time {
	y, m, d := time.Unix(int64(days)*secondsPerDay, 0).UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
