// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the bureau-palette command tree.
package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bureau-foundation/palette/cmd/bureau-palette/cli"
	"github.com/bureau-foundation/palette/lib/config"
	"github.com/bureau-foundation/palette/lib/version"
)

// Root returns the complete command tree, writing command output to
// stdout.
func Root() *cli.Command {
	return newRoot(os.Stdout)
}

func newRoot(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name: "bureau-palette",
		Description: `bureau-palette: a keyboard-driven command palette.

Type to search commands gathered from local catalogs and remote
catalog servers, then run the highlighted one. Commands either invoke
a built-in function or open a URL.`,
		Subcommands: []*cli.Command{
			runCommand(),
			serveCommand(),
			checkCommand(stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(stdout, "bureau-palette %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Open the palette with an explicit config",
				Command:     "bureau-palette run --config ~/.config/bureau/palette.yaml",
			},
			{
				Description: "Validate a config and its command files",
				Command:     "bureau-palette check --config palette.yaml",
			},
			{
				Description: "Serve a catalog to other palettes",
				Command:     "bureau-palette serve --file commands.jsonc --http :8080",
			},
		},
	}
}

// configHint tells the user how a config file is selected.
var configHint = fmt.Sprintf("Pass --config <file> or set %s.", config.EnvironmentVariable)

// loadConfig reads path, or the file named by the environment when path
// is empty.
func loadConfig(path string) (*config.Config, error) {
	var loaded *config.Config
	var err error
	if path != "" {
		loaded, err = config.LoadFile(path)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err).WithHint(configHint)
		}
		return nil, cli.Validation("%w", err).WithHint(configHint)
	}
	return loaded, nil
}

// splitErrors flattens an errors.Join result into its parts.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var parts []error
		for _, part := range joined.Unwrap() {
			parts = append(parts, splitErrors(part)...)
		}
		return parts
	}
	return []error{err}
}
