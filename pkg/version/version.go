// Package version provides build version information, set at link time:
//
//	go build -ldflags "-X github.com/coral-mesh/dwprod/pkg/version.Version=v1.2.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "dev"

	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"

	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"

	// GoVersion is the Go version used to build
	GoVersion = runtime.Version()
)

// Info returns the multi-line banner printed by --version.
func Info(name string) string {
	return fmt.Sprintf("%s version %s\nGit commit: %s\nBuild date: %s\nGo version: %s\n",
		name, Version, GitCommit, BuildDate, GoVersion)
}
