// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the palette binary.
//
// Release builds inject values via -ldflags:
//
//	go build -ldflags "-X github.com/bureau-foundation/palette/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/bureau-palette
//
// When a value is not injected, the VCS stamp recorded by the Go
// toolchain is used instead.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set via -ldflags.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// Build is a resolved snapshot of the build information.
type Build struct {
	Version   string
	Commit    string
	Dirty     bool
	Time      string
	GoVersion string
	Platform  string
}

var (
	resolveOnce sync.Once
	resolved    Build
)

// Current returns the build information, preferring ldflags values and
// falling back to the embedded VCS settings.
func Current() Build {
	resolveOnce.Do(func() {
		var settings []debug.BuildSetting
		if info, ok := debug.ReadBuildInfo(); ok {
			settings = info.Settings
		}
		resolved = resolve(GitCommit, GitDirty, BuildTime, Version, settings)
	})
	return resolved
}

func resolve(commit, dirty, buildTime, release string, settings []debug.BuildSetting) Build {
	build := Build{
		Version:   release,
		Commit:    commit,
		Dirty:     dirty == "true",
		Time:      buildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if build.Commit == "unknown" && setting.Value != "" {
				build.Commit = setting.Value
				if len(build.Commit) > 12 {
					build.Commit = build.Commit[:12]
				}
			}
		case "vcs.time":
			if build.Time == "unknown" && setting.Value != "" {
				build.Time = setting.Value
			}
		case "vcs.modified":
			if dirty != "true" && setting.Value == "true" {
				build.Dirty = true
			}
		}
	}
	return build
}

// String formats the build as "version (commit[-dirty], time)".
func (b Build) String() string {
	suffix := ""
	if b.Dirty {
		suffix = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", b.Version, b.Commit, suffix, b.Time)
}

// Info returns the one-line version string.
func Info() string {
	return Current().String()
}

// Full returns Info plus the Go toolchain and platform.
func Full() string {
	build := Current()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", build, build.GoVersion, build.Platform)
}

// Short returns just the version number.
func Short() string {
	return Version
}
