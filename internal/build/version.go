// Package build holds version information stamped in at link time.
package build

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// ResolvedVersion returns Version, or the module version recorded by
// "go install" when no version was stamped in.
func ResolvedVersion() string {
	if !IsDevBuild() {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String describes the build on one line.
func String() string {
	return fmt.Sprintf("scriv %s (commit %s, built %s)", ResolvedVersion(), Commit, BuildDate)
}
