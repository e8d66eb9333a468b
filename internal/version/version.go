// Package version carries build metadata set with -ldflags -X.
package version

import "fmt"

var (
	// Version is the release tag of the dga-report binary.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String formats the build metadata on one line.
func String() string {
	return fmt.Sprintf("dga-report %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
