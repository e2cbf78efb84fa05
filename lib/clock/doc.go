// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the injectable time source behind the
// palette's debounce timer.
//
// Production code passes Real(). Tests pass Fake(), which moves only on
// Advance or Set, so a test can type three keystrokes, advance past the
// debounce interval, and observe exactly one search without sleeping:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	controller, _ := palette.New(palette.Config{Clock: fake, ...})
//	controller.SetInput("gS")
//	fake.Advance(palette.DefaultDebounce)
package clock
