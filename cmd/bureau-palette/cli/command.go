// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree: a leaf with Run, a group
// with Subcommands, or both.
type Command struct {
	// Name is what the user types to select the command.
	Name string

	// Summary is the one-liner listed in the parent's help.
	Summary string

	// Description is the long help text. Summary is used when empty.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds a fresh flag set on every call. Nil means the
	// command takes no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are selected by the first positional argument.
	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	// With Subcommands set, Run handles arguments that start with a
	// flag.
	Run func(args []string) error

	// Output receives help text. Subcommands inherit it; the root
	// defaults to stderr.
	Output io.Writer

	// parent links a subcommand to its group once dispatched, for the
	// full command path in help.
	parent *Command
}

// Example is one entry of a command's Examples help section.
type Example struct {
	Description string
	Command     string
}

// Execute parses args and runs the matching subcommand or Run.
// "help", "-h", and "--help" print help instead; "help <command>"
// prints the named subcommand's help.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		target := c
		if args[0] == "help" && len(args) > 1 {
			sub, err := c.subcommand(args[1])
			if err != nil {
				return err
			}
			target = sub
		}
		target.PrintHelp(target.output())
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, err := c.subcommand(args[0])
		if err != nil {
			return err
		}
		return sub.Execute(args[1:])
	}

	if len(c.Subcommands) > 0 && c.Run == nil {
		c.PrintHelp(c.output())
		if len(args) == 0 {
			return Validation("subcommand required")
		}
		return Validation("subcommand required (got flag %q)", args[0])
	}

	remaining, helped, err := c.parseFlags(args)
	if err != nil || helped {
		return err
	}
	if c.Run == nil {
		c.PrintHelp(c.output())
		return Validation("no action defined for %q", c.fullName())
	}
	return c.Run(remaining)
}

// subcommand looks up name among the subcommands and links it to c.
func (c *Command) subcommand(name string) (*Command, error) {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub, nil
		}
	}
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		return nil, Validation("unknown command %q (did you mean %q?)", name, suggestion).WithHint(c.usageHint())
	}
	return nil, Validation("unknown command %q", name).WithHint(c.usageHint())
}

// parseFlags parses args against c's flags and returns the positional
// arguments. helped reports that --help was given and help printed.
func (c *Command) parseFlags(args []string) (remaining []string, helped bool, err error) {
	if c.Flags == nil {
		return args, false, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)

	err = flagSet.Parse(args)
	switch {
	case err == nil:
		return flagSet.Args(), false, nil
	case errors.Is(err, pflag.ErrHelp):
		c.PrintHelp(c.output())
		return nil, true, nil
	}

	message := err.Error()
	if strings.HasPrefix(message, "unknown flag") || strings.HasPrefix(message, "unknown shorthand flag") {
		if suggestion := suggestFlag(args, flagSet); suggestion != "" {
			return nil, false, Validation("%s (did you mean %s?)", message, suggestion).WithHint(c.usageHint())
		}
	}
	return nil, false, Validation("%s", message).WithHint(c.usageHint())
}

func (c *Command) usageHint() string {
	return fmt.Sprintf("Run '%s --help' for usage.", c.fullName())
}

// PrintHelp writes the description, usage, subcommands, flags, and
// examples to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	switch {
	case c.Description != "":
		fmt.Fprintf(w, "%s\n\n", c.Description)
	case c.Summary != "":
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	switch {
	case usage != "":
	case len(c.Subcommands) > 0:
		usage = name + " <command> [flags]"
	default:
		usage = name + " [flags]"
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if usage := c.Flags().FlagUsages(); usage != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usage)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for index, example := range c.Examples {
			if index > 0 {
				fmt.Fprintln(w)
			}
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s help <command>' for more information on a command.\n", name)
	}
}

func (c *Command) output() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Output != nil {
			return command.Output
		}
	}
	return os.Stderr
}

// fullName returns the complete command path (e.g., "bureau-palette serve").
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

// isHelpFlag returns true for common help flag variants.
func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
