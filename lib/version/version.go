// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time. They keep their
// defaults during development builds and test runs.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Full returns the complete version description printed by the
// version command: semantic version, commit, build time, and the Go
// runtime and platform of the build.
func Full() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)\n  Go: %s\n  Platform: %s/%s",
		Version, GitCommit, dirty, BuildTime,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
