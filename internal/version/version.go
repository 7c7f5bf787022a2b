// Package version provides build version information for the
// application. Separate package so any layer can report the version
// without importing the CLI.
package version

// Version is the build version string, set by ldflags during release
// builds. Format: vX.Y.Z or vX.Y.Z-dev for development builds.
var Version = "v1.2.0"

// BuildTime is the build timestamp, set by ldflags during build.
var BuildTime = "unknown"
