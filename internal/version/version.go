// Package version holds the build identity of webcompat.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X webcompat/internal/version.Version=1.0.0 -X webcompat/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const shortCommitLen = 7

// ShortCommit returns the abbreviated commit hash, or "" when the build
// did not record one.
func ShortCommit() string {
	if Commit == "" || Commit == "unknown" {
		return ""
	}
	if len(Commit) > shortCommitLen {
		return Commit[:shortCommitLen]
	}
	return Commit
}

// UserAgent identifies webcompat to dataset hosts.
func UserAgent() string {
	if c := ShortCommit(); c != "" {
		return fmt.Sprintf("webcompat/%s (%s)", Version, c)
	}
	return "webcompat/" + Version
}

// Full is the text printed by `webcompat version`.
func Full() string {
	commit := Commit
	if commit == "" {
		commit = "unknown"
	}
	return fmt.Sprintf("webcompat version %s\nCommit: %s\nBuilt: %s\nGo: %s %s/%s",
		Version, commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
