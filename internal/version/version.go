// Package version provides build-time version information for folio.
// Values are injected with -ldflags "-X github.com/pdime/folio/internal/version.Version=x.y.z"
// and the matching Commit and Date variables.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash of the build.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// GoVersion is the Go version used to build the binary.
	GoVersion = runtime.Version()
)

// Info holds all version information for the application.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetInfo returns all version information as a structured type. Values not
// injected at link time are taken from the module and VCS data the Go
// toolchain embeds, so `go install` builds still report a version.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, kv := range bi.Settings {
		switch {
		case kv.Key == "vcs.revision" && info.Commit == "unknown":
			info.Commit = kv.Value
		case kv.Key == "vcs.time" && info.Date == "unknown":
			info.Date = kv.Value
		}
	}
	return info
}

// String returns a human-readable version string.
func String() string {
	info := GetInfo()
	if info.Commit != "unknown" && info.Date != "unknown" {
		return fmt.Sprintf("folio %s (commit %s, built %s, %s, %s)",
			info.Version, shortCommit(info.Commit), info.Date, info.GoVersion, info.Platform)
	}
	return fmt.Sprintf("folio %s (%s, %s)", info.Version, info.GoVersion, info.Platform)
}

// Short returns the version for cobra's --version flag.
func Short() string {
	return GetInfo().Version
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
