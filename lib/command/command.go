// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

// ActionKind identifies which variant an [Action] holds.
type ActionKind string

const (
	// ActionInvoke calls a Go function with the (possibly empty)
	// argument.
	ActionInvoke ActionKind = "invoke"

	// ActionNavigate opens a URL built from a template and the
	// argument.
	ActionNavigate ActionKind = "navigate"
)

// InvokeFunc is the callable behind an invoke action. The argument is
// empty for commands that do not take one.
type InvokeFunc func(ctx context.Context, argument string) error

// Action is a tagged variant. Kind selects which of the remaining
// fields are meaningful:
//
//   - ActionInvoke: Function (required) and FunctionName (for logs
//     and the wire shape).
//   - ActionNavigate: URLTemplate (required). "{argument}" in the
//     template is replaced with the URL-escaped argument.
type Action struct {
	Kind         ActionKind
	FunctionName string
	Function     InvokeFunc
	URLTemplate  string
}

// Argument describes whether a command collects free text before it
// runs. Label is an optional hint shown next to the command name while
// the argument is being typed.
type Argument struct {
	Required bool
	Label    string
}

// MatchCacheLimit bounds the number of memoized query results a single
// command keeps. When the cache reaches the limit it is emptied and
// starts over.
const MatchCacheLimit = 1024

// Command is a named, executable action. Build commands with [New] or
// [Descriptor.Build]; the zero value is not valid. A Command must not
// be copied after first use (it contains a mutex).
type Command struct {
	// Name is the display name and the primary match target.
	Name string

	// Aliases are alternate match targets, tried in order after Name.
	Aliases []string

	// Pattern, when set, is tested against the raw query string. A hit
	// makes the command match regardless of Name and Aliases.
	Pattern *regexp.Regexp

	// Icon is a short glyph rendered before the name.
	Icon string

	// Description is markdown shown in the preview pane while the
	// command is highlighted.
	Description string

	// Argument controls the argument-collection step.
	Argument Argument

	// ArgumentDefault pre-fills the argument field.
	ArgumentDefault string

	// Action runs when the command is executed.
	Action Action

	matchMutex sync.Mutex
	matches    map[string]bool
}

// Spec holds the fields accepted by [New].
type Spec struct {
	Name            string
	Aliases         []string
	Pattern         *regexp.Regexp
	Icon            string
	Description     string
	Argument        Argument
	ArgumentDefault string
	Action          Action
}

// New validates spec and returns the command. Returns a
// *ConfigurationError if the name is blank or the action variant is
// missing its required field.
func New(spec Spec) (*Command, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, &ConfigurationError{Field: "name", Reason: "is required"}
	}

	switch spec.Action.Kind {
	case ActionInvoke:
		if spec.Action.Function == nil {
			return nil, &ConfigurationError{Command: name, Field: "action.fn", Reason: "invoke action has no function"}
		}
	case ActionNavigate:
		if strings.TrimSpace(spec.Action.URLTemplate) == "" {
			return nil, &ConfigurationError{Command: name, Field: "action.url", Reason: "navigate action has no URL template"}
		}
	case "":
		return nil, &ConfigurationError{Command: name, Field: "action.kind", Reason: "is required"}
	default:
		return nil, &ConfigurationError{
			Command: name,
			Field:   "action.kind",
			Reason:  "unknown kind " + string(spec.Action.Kind) + ` (expected "invoke" or "navigate")`,
		}
	}

	var aliases []string
	for _, alias := range spec.Aliases {
		if alias = strings.TrimSpace(alias); alias != "" {
			aliases = append(aliases, alias)
		}
	}

	return &Command{
		Name:            name,
		Aliases:         aliases,
		Pattern:         spec.Pattern,
		Icon:            spec.Icon,
		Description:     spec.Description,
		Argument:        spec.Argument,
		ArgumentDefault: spec.ArgumentDefault,
		Action:          spec.Action,
	}, nil
}

// MustNew is like New but panics on error. For tests and built-in
// command tables.
func MustNew(spec Spec) *Command {
	command, err := New(spec)
	if err != nil {
		panic(err)
	}
	return command
}

// RequiresArgument reports whether committing the command enters the
// argument-collection step.
func (command *Command) RequiresArgument() bool {
	return command.Argument.Required
}

// ArgumentPrompt returns the label shown in place of the palette's
// default label while the argument is being typed: the command name,
// followed by the argument hint when one is configured.
func (command *Command) ArgumentPrompt() string {
	if command.Argument.Label == "" {
		return command.Name
	}
	return command.Name + " (" + command.Argument.Label + ")"
}

// CachedMatch returns the memoized result for query, if present.
func (command *Command) CachedMatch(query string) (matched bool, found bool) {
	command.matchMutex.Lock()
	defer command.matchMutex.Unlock()
	matched, found = command.matches[query]
	return matched, found
}

// StoreMatch memoizes the match result for query.
func (command *Command) StoreMatch(query string, matched bool) {
	command.matchMutex.Lock()
	defer command.matchMutex.Unlock()
	if command.matches == nil || len(command.matches) >= MatchCacheLimit {
		command.matches = make(map[string]bool)
	}
	command.matches[query] = matched
}

// ForgetMatches drops every memoized match result.
func (command *Command) ForgetMatches() {
	command.matchMutex.Lock()
	defer command.matchMutex.Unlock()
	command.matches = nil
}

// CachedMatchCount returns the number of memoized query results.
func (command *Command) CachedMatchCount() int {
	command.matchMutex.Lock()
	defer command.matchMutex.Unlock()
	return len(command.matches)
}

// String returns the command name.
func (command *Command) String() string {
	return command.Name
}
