// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the palette's YAML configuration and the JSONC
// command files it references.
//
// Configuration comes from a single file named by the --config flag
// (via [LoadFile]) or the BUREAU_PALETTE_CONFIG environment variable
// (via [Load]). There is no discovery and no per-field environment
// override. After loading, ${VAR} and ${VAR:-default} patterns are
// expanded in paths, endpoints, and the opener command, and relative
// command-file and socket paths are resolved against the config
// file's directory.
//
// [Config.Validate] reports every problem at once. [Config.BuildSources]
// turns the validated source list into palette sources.
package config
