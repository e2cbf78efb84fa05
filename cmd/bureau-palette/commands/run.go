// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/palette/cmd/bureau-palette/cli"
	"github.com/bureau-foundation/palette/lib/action"
	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/config"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/palette"
	"github.com/bureau-foundation/palette/lib/paletteui"
)

type runOptions struct {
	configPath string
	logLevel   string
	logOutput  string
	closed     bool
}

func runCommand() *cli.Command {
	var options runOptions
	return &cli.Command{
		Name:    "run",
		Summary: "Open the command palette",
		Description: `Open the command palette in the terminal.

Press the configured chord (ctrl+p by default) to open the palette,
type to search, and press enter to run the highlighted command.
Commands that take an argument switch the input field to argument
mode; press enter again to submit or esc to cancel.

Warnings from sources and failed commands appear on the status line.
Use --log-output to capture every record as JSON for later inspection.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			flagSet.StringVar(&options.configPath, "config", "", "palette config file (default $"+config.EnvironmentVariable+")")
			flagSet.StringVar(&options.logLevel, "log-level", "warn", "lowest level shown on the status line")
			flagSet.StringVar(&options.logOutput, "log-output", "", "also write every log record as JSON to this file")
			flagSet.BoolVar(&options.closed, "closed", false, "start with the palette closed")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Open the palette and keep a debug log",
				Command:     "bureau-palette run --config palette.yaml --log-output /tmp/palette.jsonl",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			return runPalette(options)
		},
	}
}

func runPalette(options runOptions) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return cli.Validation("run needs an interactive terminal").
			WithHint("Use 'bureau-palette check' to validate a config without one.")
	}

	level, err := cli.ParseLevel(options.logLevel)
	if err != nil {
		return err
	}
	loaded, err := loadConfig(options.configPath)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return cli.Validation("invalid config:\n%w", err).
			WithHint("Run 'bureau-palette check' for a full report.")
	}
	chord, err := loaded.PaletteChord()
	if err != nil {
		return cli.Validation("%w", err)
	}

	view := paletteui.NewView(paletteui.DefaultTheme, paletteui.DefaultRows)
	loop := paletteui.NewLoop()

	// Stderr would corrupt the alt screen, so records go to the status
	// line and optionally a file.
	var fileHandler slog.Handler
	if options.logOutput != "" {
		handler, closeFile, err := openFileLogHandler(options.logOutput)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", options.logOutput, err)
		}
		defer closeFile()
		fileHandler = handler
	}
	handler := teeHandlers(paletteui.NewLogHandler(level, loop, view), fileHandler)
	logger := slog.New(handler)
	notifier := slog.New(paletteui.NewLogHandler(slog.LevelInfo, loop, view))

	var program *tea.Program
	registry := action.Builtins(action.BuiltinConfig{
		Notify:   func(message string) { notifier.Info(message) },
		Terminal: os.Stdout,
		// Quit runs inside Update, where a blocking Send would deadlock.
		Quit: func() { go program.Quit() },
	})

	matcher := match.New(loaded.PatternCacheSize)
	sources, err := loaded.BuildSources(matcher, registry, logger)
	if err != nil {
		return cli.Validation("%w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller, err := palette.New(palette.Config{
		Chord:    chord,
		Debounce: time.Duration(loaded.Debounce),
		Label:    loaded.Label,
		Sources:  sources,
		Matcher:  matcher,
		Renderer: view,
		Executor: action.New(action.Config{Opener: loaded.Opener, Logger: logger}),
		Loop:     loop,
		Logger:   logger,
		Context:  ctx,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}
	controller.OnCommandExecuted(func(executed *command.Command, argument string) {
		logger.Debug("command finished",
			"command", executed.Name,
			"argument_bytes", len(argument),
		)
	})

	model := paletteui.NewModel(paletteui.ModelConfig{
		Controller:  controller,
		View:        view,
		Loop:        loop,
		Title:       "bureau-palette",
		OpenOnStart: !options.closed,
	})
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	loop.SetProgram(program)

	if _, err := program.Run(); err != nil {
		return cli.Internal("palette: %w", err)
	}
	return nil
}
