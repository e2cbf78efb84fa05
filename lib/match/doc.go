// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package match decides whether a typed query selects a command.
//
// Matching is word-start, camel-case aware, and case-insensitive. The
// query is split into fragments: each fragment starts at a letter (or
// any other non-space rune) and runs until the next uppercase ASCII
// letter or whitespace. "gTU" splits into "g", "T", "U"; "go to" splits
// into "go", "to". Each fragment must begin a word in the target and
// may be followed by the rest of that word and optional whitespace, so
// "gTU" matches "Go To URL" and "se" matches "Google Search" at the
// start of "Search". The pattern is a search, not a full-string match:
// it may begin at any word boundary in the target.
//
// A command matches when the pattern finds its name or any alias, or
// when the command's own custom pattern matches the raw query. The
// empty query matches everything.
//
// A [Matcher] owns a bounded LRU cache of compiled patterns keyed by
// the literal query, and memoizes per-command results in each
// command's own cache. Match membership never depends on ranking:
// [Matcher.Filter] preserves catalog order. [Highlight] computes which
// characters of a label to emphasize for display and does not affect
// membership.
package match
