package dga

import (
	"errors"
	"fmt"
)

var (
	// ErrData matches every *DataError via errors.Is.
	ErrData = errors.New("data error")
	// ErrConfiguration matches every *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("configuration error")
)

// DataError reports malformed or missing required input. It aborts the call
// and no partial result is returned.
type DataError struct {
	Column string
	Reason string
}

func (e *DataError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("data error: %s", e.Reason)
	}
	return fmt.Sprintf("data error: column %q: %s", e.Column, e.Reason)
}

// Is lets errors.Is(err, ErrData) match.
func (e *DataError) Is(target error) bool {
	return target == ErrData
}

// ConfigurationError reports an unrecognised gas, unit id, period token or
// other invalid setting. It is raised before any row is processed.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErrorf(field, value, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}
