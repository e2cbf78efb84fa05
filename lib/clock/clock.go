// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the time source for anything that schedules callbacks.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f once d has elapsed. d <= 0 calls f at once:
	// on a new goroutine for Real, before returning for Fake.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call. The zero Timer and a nil *Timer
// are already stopped.
type Timer struct {
	stop func() bool
}

// Stop cancels the call. It reports whether this Stop prevented the
// call; false means it already ran or was stopped earlier.
func (t *Timer) Stop() bool {
	if t == nil || t.stop == nil {
		return false
	}
	return t.stop()
}

// Real returns the Clock backed by package time.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	return &Timer{stop: time.AfterFunc(d, f).Stop}
}
