// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import "errors"

// State is the controller's lifecycle state.
type State int

const (
	Closed State = iota
	Idle
	Searching
	Results
	AwaitingArgument
)

func (state State) String() string {
	switch state {
	case Closed:
		return "closed"
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Results:
		return "results"
	case AwaitingArgument:
		return "awaiting-argument"
	}
	return "unknown"
}

// Open reports whether the palette is visible in this state.
func (state State) Open() bool {
	return state != Closed
}

// ErrIllegalTransition is returned for requests the current state does
// not allow: committing with nothing highlighted, or submitting an
// argument outside argument mode. Hosts ignore it; the controller's
// state is unchanged.
var ErrIllegalTransition = errors.New("palette: illegal transition")
