// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package paletteui hosts a [palette.Controller] in a bubbletea terminal
// program.
//
// The package supplies the three capabilities the controller needs from
// its host:
//
//   - [View] implements palette.Renderer. It keeps the label, input
//     field, result rows, highlight, and scroll offset that the model
//     draws.
//   - [Loop] implements palette.EventLoop. Callbacks posted from source
//     goroutines and timers are queued and run inside the bubbletea
//     Update cycle, so the controller only ever runs on the program's
//     goroutine.
//   - [Model] is the tea.Model. It translates key and mouse messages
//     into controller calls, forwards text editing to a bubbles
//     textinput, and renders the palette as an overlay on a hint
//     screen.
//
// [LogHandler] routes warn-and-above log records into the status line
// so background failures are visible without writing to the alternate
// screen.
package paletteui
