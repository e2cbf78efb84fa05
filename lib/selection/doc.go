// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package selection implements the dropdown highlight state machine.
//
// A [State] holds an ordered list of items and a highlighted index,
// which is -1 when nothing is highlighted. Keyboard navigation wraps
// with one extra "none" stop between the last item and the first, so
// pressing Next len+1 times from the unhighlighted state returns to it.
//
// State has no rendering knowledge. It reports highlight changes and
// scroll requests to an injected [Scroller]; the palette UI implements
// Scroller against its dropdown.
//
// State is not safe for concurrent use. The palette controller only
// touches it from its event loop.
package selection
