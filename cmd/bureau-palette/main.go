// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-palette is a terminal command palette. See
// "bureau-palette --help" for the subcommands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/palette/cmd/bureau-palette/cli"
	"github.com/bureau-foundation/palette/cmd/bureau-palette/commands"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		// Commands that print their own report (like check) return an
		// ExitError with the desired code. Don't print a redundant
		// "error:" line for those.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var toolErr *cli.ToolError
		if errors.As(err, &toolErr) {
			os.Exit(toolErr.ExitCode())
		}
		os.Exit(1)
	}
}
