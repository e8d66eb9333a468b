package dga

import "strings"

// AllToken is the selector sentinel that expands to every known name.
const AllToken = "All"

// Selector chooses units or gases: either every known name or an explicit,
// non-empty set. The zero Selector is an empty explicit set and is rejected
// when resolved.
type Selector struct {
	all   bool
	names []string
}

// All selects every known name in first-seen order.
func All() Selector {
	return Selector{all: true}
}

// Only selects the given names. Duplicates are dropped, keeping the first
// occurrence.
func Only(names ...string) Selector {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return Selector{names: out}
}

// ParseSelector reads the command-line form: "All" or a comma-separated
// list of names.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllToken) {
		return All()
	}
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return Only(names...)
}

// IsAll reports whether the selector is the "All" sentinel.
func (s Selector) IsAll() bool { return s.all }

// Names returns the explicit names; nil for the "All" sentinel.
func (s Selector) Names() []string {
	if s.all {
		return nil
	}
	return append([]string(nil), s.names...)
}

func (s Selector) String() string {
	if s.all {
		return AllToken
	}
	return strings.Join(s.names, ",")
}

// resolve expands the selector against the known names. Every explicit name
// must be known.
func (s Selector) resolve(field string, known []string) ([]string, error) {
	if s.all {
		return append([]string(nil), known...), nil
	}
	if len(s.names) == 0 {
		return nil, configErrorf(field, "", "selector must be %q or a non-empty set", AllToken)
	}
	for _, n := range s.names {
		if !IsRecognised(n, known) {
			return nil, configErrorf(field, n, "not recognised (known: %s)", joinNames(known))
		}
	}
	return append([]string(nil), s.names...), nil
}
