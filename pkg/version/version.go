// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"

	"golang.org/x/mod/semver"
)

// Set at build time, e.g. -ldflags "-X github.com/smith-xyz/linkgraph/pkg/version.GitCommit=$(git rev-parse HEAD)"
var (
	Version   = "v0.3.0-beta"
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"
)

// Info describes the running binary
type Info struct {
	Version    string `json:"version"`
	Prerelease bool   `json:"prerelease"`
	GitCommit  string `json:"gitCommit"`
	GitBranch  string `json:"gitBranch"`
	BuildTime  string `json:"buildTime"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
}

// Current returns the metadata of this build.
func Current() Info {
	return Info{
		Version:    Version,
		Prerelease: IsPrerelease(),
		GitCommit:  GitCommit,
		GitBranch:  GitBranch,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short is the one-line form used by --version: the version plus an abbreviated commit.
func Short() string {
	if GitCommit != "unknown" && len(GitCommit) >= 7 {
		return fmt.Sprintf("%s (%s)", Version, GitCommit[:7])
	}
	return Version
}

// IsPrerelease reports whether Version carries a pre-release suffix such as -beta or -rc.1.
// A version that is not valid semver is a development build and counts as pre-release.
func IsPrerelease() bool {
	if !semver.IsValid(Version) {
		return true
	}
	return semver.Prerelease(Version) != ""
}

// String renders the multi-line form printed by the version command.
func (i Info) String() string {
	name := "linkgraph " + i.Version
	if i.Prerelease {
		name += " (pre-release)"
	}
	return fmt.Sprintf("%s\nBuilt: %s\nCommit: %s\nBranch: %s\nGo: %s\nPlatform: %s",
		name, i.BuildTime, i.GitCommit, i.GitBranch, i.GoVersion, i.Platform)
}
