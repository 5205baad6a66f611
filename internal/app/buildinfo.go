package app

import "fmt"

// Build information populated via -ldflags at build time.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// VersionString formats the build information for `careflow version`.
func VersionString() string {
	return fmt.Sprintf("careflow %s (commit %s, built %s)", BuildVersion, BuildCommit, BuildDate)
}
