// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package action runs command actions.
//
// [Executor] implements palette.Executor. Invoke actions call the
// command's bound function. Navigate actions expand the URL template
// with [ExpandURL] and hand the result to an opener program
// (xdg-open by default), which is started and reaped in the background
// so the palette never waits on a browser.
//
// [Builtins] is the registry of invoke functions the bureau-palette
// binary ships with; command files refer to them by name.
package action
