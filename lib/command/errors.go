// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
)

// ErrNotExecutable is returned by the placeholder function that
// [Unresolved] attaches to invoke actions. Catalogs built for serving
// (rather than executing) use it.
var ErrNotExecutable = errors.New("command is not executable in this process")

// ConfigurationError reports a malformed command. Construction fails
// and no command is produced.
type ConfigurationError struct {
	// Command is the command name, empty when the name itself is the
	// problem.
	Command string

	// Field is the descriptor field at fault, in config notation
	// (e.g., "action.url").
	Field string

	// Reason describes what is wrong with the field.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("command %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("command %q: %s %s", e.Command, e.Field, e.Reason)
}

// MatchCompileError reports a custom pattern that failed to compile.
// It accompanies a valid command: the command still matches by name and
// aliases, only the custom pattern test is skipped.
type MatchCompileError struct {
	Command string
	Pattern string
	Err     error
}

func (e *MatchCompileError) Error() string {
	return fmt.Sprintf("command %q: pattern %q does not compile: %v", e.Command, e.Pattern, e.Err)
}

func (e *MatchCompileError) Unwrap() error { return e.Err }
