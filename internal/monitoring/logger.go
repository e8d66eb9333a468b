// Package monitoring holds the diagnostic logger shared by the analysis
// packages.
package monitoring

import (
	"fmt"
	"log"
	"sync"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or the CLI can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Capture redirects Logf into an in-memory buffer until restore is called.
// The returned lines func is safe to call while workers are still logging.
func Capture() (lines func() []string, restore func()) {
	var (
		mu  sync.Mutex
		buf []string
	)
	previous := Logf
	Logf = func(format string, v ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		buf = append(buf, fmt.Sprintf(format, v...))
	}
	lines = func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), buf...)
	}
	restore = func() { Logf = previous }
	return lines, restore
}
