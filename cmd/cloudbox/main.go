// CloudBox - CLI for the CloudBox file storage service.
package main

import (
	"os"

	"github.com/cloudbox/cloudbox-cli/internal/cli"
	"github.com/cloudbox/cloudbox-cli/internal/version"
)

// Version information, overridden by ldflags in release builds.
var (
	Version   = "v1.2.0"
	BuildTime = "2026-08-30"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
