// Package version exposes the build metadata stamped into forgeplan binaries.
package version

import (
	"fmt"
	"runtime"
)

// Stamped via -ldflags at release build time; defaults describe a local build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info is a snapshot of the binary's build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"builddate"`
	GoVersion string `json:"goversion"`
	Platform  string `json:"platform"`
}

// Get captures the stamped values together with the runtime's toolchain and
// platform.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return i.Version
}

// Full renders the one-line banner printed by the version command.
func (i Info) Full() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s, %s)", i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
