// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"

	"github.com/bureau-foundation/palette/lib/command"
)

// ArgumentPlaceholder is replaced by the URL-escaped argument in a
// navigate action's URL template.
const ArgumentPlaceholder = "{argument}"

// DefaultOpener is the program that opens navigate URLs.
const DefaultOpener = "xdg-open"

// StartFunc starts a program without waiting for it. wait blocks until
// the program exits.
type StartFunc func(name string, args ...string) (wait func() error, err error)

// Config configures an Executor.
type Config struct {
	// Opener is the command line that opens URLs; the URL is appended
	// as the last argument. Split on whitespace. Defaults to
	// DefaultOpener.
	Opener string

	// Start defaults to starting the program with os/exec.
	Start StartFunc

	// Logger is required.
	Logger *slog.Logger
}

// Executor runs invoke and navigate actions.
type Executor struct {
	opener []string
	start  StartFunc
	logger *slog.Logger
}

// New returns an Executor. Panics when Logger is nil.
func New(config Config) *Executor {
	if config.Logger == nil {
		panic("action.Executor: Logger is required")
	}
	opener := strings.Fields(config.Opener)
	if len(opener) == 0 {
		opener = []string{DefaultOpener}
	}
	start := config.Start
	if start == nil {
		start = startProcess
	}
	return &Executor{opener: opener, start: start, logger: config.Logger}
}

// Execute runs target's action with argument.
func (executor *Executor) Execute(ctx context.Context, target *command.Command, argument string) error {
	switch target.Action.Kind {
	case command.ActionInvoke:
		if target.Action.Function == nil {
			return fmt.Errorf("invoking %s: %w", target.Action.FunctionName, command.ErrNotExecutable)
		}
		if err := target.Action.Function(ctx, argument); err != nil {
			return fmt.Errorf("invoking %s: %w", target.Action.FunctionName, err)
		}
		return nil
	case command.ActionNavigate:
		location, err := ExpandURL(target.Action.URLTemplate, argument)
		if err != nil {
			return err
		}
		return executor.open(location)
	}
	return fmt.Errorf("unknown action kind %q: %w", target.Action.Kind, command.ErrNotExecutable)
}

func (executor *Executor) open(location string) error {
	args := append(append([]string(nil), executor.opener[1:]...), location)
	wait, err := executor.start(executor.opener[0], args...)
	if err != nil {
		return fmt.Errorf("opening %s with %s: %w", location, executor.opener[0], err)
	}
	executor.logger.Info("opening url", "url", location, "opener", executor.opener[0])

	go func() {
		if err := wait(); err != nil {
			executor.logger.Warn("opener exited with error",
				"opener", executor.opener[0],
				"url", location,
				"error", err,
			)
		}
	}()
	return nil
}

// ExpandURL replaces every ArgumentPlaceholder in template with the
// query-escaped argument and checks that the result is an absolute
// URL.
func ExpandURL(template, argument string) (string, error) {
	location := strings.ReplaceAll(template, ArgumentPlaceholder, url.QueryEscape(argument))
	parsed, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", template, err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("expanding %q: %w", template, errors.New("result has no scheme"))
	}
	return location, nil
}

func startProcess(name string, args ...string) (func() error, error) {
	process := exec.Command(name, args...)
	if err := process.Start(); err != nil {
		return nil, err
	}
	return process.Wait, nil
}
