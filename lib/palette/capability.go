// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import (
	"context"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/selection"
)

// Target names a surface the controller shows and hides.
type Target int

const (
	// TargetPalette is the whole palette: input field, label, and
	// dropdown.
	TargetPalette Target = iota

	// TargetDropdown is the result list below the input.
	TargetDropdown
)

func (target Target) String() string {
	switch target {
	case TargetPalette:
		return "palette"
	case TargetDropdown:
		return "dropdown"
	}
	return "unknown"
}

// Renderer draws the palette. The controller calls it only from the
// event loop.
type Renderer interface {
	// SetHighlight and ScrollIntoView follow the dropdown highlight.
	selection.Scroller

	// RenderList redraws the dropdown rows. query is the dispatched
	// query, for match highlighting.
	RenderList(commands []*command.Command, query string)

	// SetLabel replaces the text shown before the input field.
	SetLabel(label string)

	// SetInput replaces the input field's text.
	SetInput(text string)

	// Show and Hide may animate. done, when non-nil, is called once the
	// transition has finished; it may be called from any goroutine.
	Show(target Target, done func())
	Hide(target Target, done func())

	// ShowError reports a failed command execution to the user.
	ShowError(err error)
}

// Executor runs a command's action.
type Executor interface {
	Execute(ctx context.Context, target *command.Command, argument string) error
}

// EventLoop serializes work onto the host's single UI thread.
type EventLoop interface {
	// Post schedules callback to run on the loop. Safe to call from any
	// goroutine; never runs callback synchronously.
	Post(callback func())
}
