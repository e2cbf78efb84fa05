// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "bureau-palette",
		Subcommands: []*Command{
			{
				Name: "run",
				Run: func(args []string) error {
					called = "run"
					return nil
				},
			},
			{
				Name: "serve",
				Run: func(args []string) error {
					called = "serve"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"serve"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "serve" {
		t.Errorf("dispatched to %q, want %q", called, "serve")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var configPath string
	var received []string

	command := &Command{
		Name: "run",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "config file")
			return flagSet
		},
		Run: func(args []string) error {
			received = args
			return nil
		},
	}

	if err := command.Execute([]string{"--config", "/etc/palette.yaml", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if configPath != "/etc/palette.yaml" {
		t.Errorf("configPath = %q", configPath)
	}
	if len(received) != 1 || received[0] != "extra" {
		t.Errorf("args = %v, want [extra]", received)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "bureau-palette",
		Subcommands: []*Command{
			{Name: "serve", Run: func(args []string) error { return nil }},
			{Name: "check", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"sevre"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), `did you mean "serve"`) {
		t.Errorf("error = %q, want a suggestion", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error should be a validation ToolError, got %T", err)
	}
	if !strings.Contains(toolErr.Hint, "bureau-palette --help") {
		t.Errorf("hint = %q", toolErr.Hint)
	}

	err = root.Execute([]string{"zzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("distant names should get no suggestion, got %v", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "serve",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			flagSet.String("socket", "", "socket path")
			flagSet.String("http", "", "listen address")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--sockt", "/tmp/x.sock"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "did you mean --socket?") {
		t.Errorf("error = %q, want a --socket suggestion", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "bureau-palette",
		Output: &output,
		Subcommands: []*Command{
			{Name: "run", Summary: "Open the palette", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Fatalf("error = %v, want subcommand required", err)
	}
	if !strings.Contains(output.String(), "Open the palette") {
		t.Errorf("help output should list subcommands:\n%s", output.String())
	}
}

func TestCommand_Execute_Help(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "bureau-palette",
		Output: &output,
		Subcommands: []*Command{
			{
				Name:        "serve",
				Description: "Serve a command catalog.",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
					flagSet.String("http", "", "listen address")
					return flagSet
				},
				Examples: []Example{{Description: "Serve over HTTP", Command: "bureau-palette serve --http :8080"}},
				Run: func(args []string) error {
					t.Error("Run should not be called for --help")
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"serve", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	help := output.String()
	for _, want := range []string{"Serve a command catalog.", "Usage:\n  bureau-palette serve [flags]", "--http", "# Serve over HTTP"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestCommand_Execute_HelpForSubcommand(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "bureau-palette",
		Output: &output,
		Subcommands: []*Command{
			{Name: "check", Description: "Validate a config.", Run: func(args []string) error { return nil }},
		},
	}

	if err := root.Execute([]string{"help", "check"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(output.String(), "Validate a config.") {
		t.Errorf("help output:\n%s", output.String())
	}

	err := root.Execute([]string{"help", "chek"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "check"`) {
		t.Errorf("help for a misspelled command: %v", err)
	}
}
