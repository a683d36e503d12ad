// Package version reports build information. The variables are set at build
// time via -ldflags "-X .../internal/version.Version=v1.2.0".
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags
var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// GitCommit is the short git commit SHA
	GitCommit = "unknown"

	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

// Name is the product name used in banners and the User-Agent header.
const Name = "tablesmith"

// Info contains structured version information.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetInfo returns the current version info. A commit missing from ldflags
// is taken from the VCS stamp go build embeds.
func GetInfo() Info {
	commit := GitCommit
	if commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					commit = s.Value[:7]
				}
			}
		}
	}
	return Info{
		Name:      Name,
		Version:   Version,
		GitCommit: commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// Short returns just the version.
func Short() string {
	return Version
}

// String returns "v1.2.0 (abc1234)".
func (i Info) String() string {
	return fmt.Sprintf("%s (%s)", i.Version, i.GitCommit)
}

// Full returns the version with build date and toolchain.
func (i Info) Full() string {
	return fmt.Sprintf("%s %s (%s) built %s with %s", i.Name, i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}

// UserAgent identifies outbound HTTP calls, e.g. "tablesmith/v1.2.0".
func UserAgent() string {
	return Name + "/" + Version
}
