// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/palette/cmd/bureau-palette/cli"
	"github.com/bureau-foundation/palette/lib/action"
	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/config"
)

func checkCommand(stdout io.Writer) *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "check",
		Summary: "Validate a config and its command files",
		Description: `Load a palette config, validate it, and build every command it
names: inline commands, local command files, and the serve catalog.

Configuration errors (a missing name, an unknown invoke function, a
navigate action without a URL) are reported as errors and make check
exit with status 1. Custom patterns that fail to compile are reported
as warnings; those commands still match by name and alias.

Remote and socket sources are listed but not contacted.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "palette config file (default $"+config.EnvironmentVariable+")")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if problems := checkConfig(stdout, loaded); problems > 0 {
				fmt.Fprintf(stdout, "\n%d problem(s) found\n", problems)
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintln(stdout, "\nconfig OK")
			return nil
		},
	}
}

// checkConfig writes a report for loaded to w and returns the number of
// errors found. Warnings are reported but not counted.
func checkConfig(w io.Writer, loaded *config.Config) int {
	problems := 0

	fmt.Fprintln(w, "config:")
	if parts := splitErrors(loaded.Validate()); len(parts) > 0 {
		for _, part := range parts {
			fmt.Fprintf(w, "  error: %v\n", part)
		}
		problems += len(parts)
	} else {
		fmt.Fprintf(w, "  ok: chord %s, %d source(s)\n", chordText(loaded), len(loaded.Sources))
	}

	// Built-ins are registered with no host hooks; only their names
	// matter here.
	registry := action.Builtins(action.BuiltinConfig{})

	for index, entry := range loaded.Sources {
		name := loaded.SourceName(index)
		switch entry.Kind {
		case config.KindRemote:
			fmt.Fprintf(w, "source %s (remote): %s\n", name, entry.Endpoint)
			continue
		case config.KindSocket:
			fmt.Fprintf(w, "source %s (socket): %s\n", name, entry.Socket)
			continue
		case config.KindLocal:
		default:
			continue
		}

		heading := fmt.Sprintf("source %s (local)", name)
		descriptors := append([]command.Descriptor(nil), entry.Commands...)
		if entry.File != "" {
			fromFile, err := config.LoadCommandFile(entry.File)
			if err != nil {
				fmt.Fprintf(w, "%s:\n  error: %v\n", heading, err)
				problems++
				continue
			}
			descriptors = append(descriptors, fromFile...)
		}
		problems += checkDescriptors(w, heading, descriptors, registry)
	}

	if loaded.Serve.File != "" {
		heading := fmt.Sprintf("serve catalog %s", loaded.Serve.File)
		descriptors, err := config.LoadCommandFile(loaded.Serve.File)
		if err != nil {
			fmt.Fprintf(w, "%s:\n  error: %v\n", heading, err)
			problems++
		} else {
			problems += checkDescriptors(w, heading, descriptors, command.Unresolved)
		}
	}

	return problems
}

func checkDescriptors(w io.Writer, heading string, descriptors []command.Descriptor, resolver command.Resolver) int {
	catalog, err := command.BuildCatalog(descriptors, resolver)
	fmt.Fprintf(w, "%s: %d of %d command(s) usable\n", heading, catalog.Len(), len(descriptors))

	fatal := splitErrors(command.FatalErrors(err))
	for _, problem := range fatal {
		fmt.Fprintf(w, "  error: %v\n", problem)
	}
	for _, part := range splitErrors(err) {
		var compileErr *command.MatchCompileError
		if errors.As(part, &compileErr) {
			fmt.Fprintf(w, "  warning: %v\n", part)
		}
	}
	return len(fatal)
}

func chordText(loaded *config.Config) string {
	chord, err := loaded.PaletteChord()
	if err != nil {
		return "?"
	}
	return chord.String()
}
