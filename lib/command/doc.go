// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package command defines the palette's unit of work: a named,
// executable [Command] with optional aliases, an optional custom match
// pattern, and an optional free-text argument.
//
// Commands are built from a [Descriptor] (the shape used in command
// files, palette config, and on the wire from remote sources) or
// directly with [New]. Construction validates the action variant and
// fails fast with a [*ConfigurationError]; a command is never partially
// constructed. A custom pattern that does not compile is not fatal: the
// command is returned together with a [*MatchCompileError] and remains
// matchable by name and aliases only.
//
// Each Command owns a small cache of match results keyed by the literal
// query string. The matcher in lib/match reads and fills it; nothing
// else about a Command changes after construction.
package command
