// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/palette/lib/command"
)

// BuiltinConfig supplies the host hooks the built-in functions use.
type BuiltinConfig struct {
	// Notify shows a short message to the user.
	Notify func(message string)

	// Terminal receives the OSC 52 sequence that sets the system
	// clipboard.
	Terminal io.Writer

	// Quit stops the host program.
	Quit func()
}

// Builtins returns the registry of built-in invoke functions:
//
//   - echo: shows the argument.
//   - copy-argument: copies the argument to the system clipboard.
//   - quit: exits the program.
func Builtins(config BuiltinConfig) command.Registry {
	notify := config.Notify
	if notify == nil {
		notify = func(string) {}
	}
	return command.Registry{
		"echo": func(ctx context.Context, argument string) error {
			notify(argument)
			return nil
		},
		"copy-argument": func(ctx context.Context, argument string) error {
			if config.Terminal == nil {
				return fmt.Errorf("no terminal to copy through")
			}
			if _, err := io.WriteString(config.Terminal, ansi.SetSystemClipboard(argument)); err != nil {
				return fmt.Errorf("writing clipboard sequence: %w", err)
			}
			notify(fmt.Sprintf("copied %d bytes", len(argument)))
			return nil
		},
		"quit": func(ctx context.Context, argument string) error {
			if config.Quit == nil {
				return command.ErrNotExecutable
			}
			config.Quit()
			return nil
		},
	}
}
