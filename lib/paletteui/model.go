// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/palette/lib/palette"
	"github.com/bureau-foundation/palette/lib/selection"
)

// errorFadeMsg clears an execution error from the status line if no
// newer error has replaced it.
type errorFadeMsg struct {
	sequence int
}

// errorFadeDelay is how long an execution error stays visible.
const errorFadeDelay = 6 * time.Second

// Default screen size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// ModelConfig configures a Model.
type ModelConfig struct {
	// Controller, View, and Loop must be the controller and the
	// renderer and event loop it was built with. Required.
	Controller *palette.Controller
	View       *View
	Loop       *Loop

	// Keys defaults to DefaultKeyMap.
	Keys *KeyMap

	// Theme defaults to DefaultTheme.
	Theme *Theme

	// Title is shown on the screen behind the palette.
	Title string

	// OpenOnStart opens the palette when the program starts.
	OpenOnStart bool
}

// Model is the bubbletea model hosting a palette controller.
type Model struct {
	controller *palette.Controller
	view       *View
	loop       *Loop
	keys       KeyMap
	theme      Theme
	title      string

	openOnStart bool
	preview     bool

	spinner spinner.Model
	help    help.Model

	width  int
	height int
}

// NewModel returns a model for config. Panics when a required field is
// missing.
func NewModel(config ModelConfig) Model {
	if config.Controller == nil || config.View == nil || config.Loop == nil {
		panic("paletteui.NewModel: Controller, View, and Loop are required")
	}
	keys := DefaultKeyMap
	if config.Keys != nil {
		keys = *config.Keys
	}
	theme := DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}

	progress := spinner.New(spinner.WithSpinner(spinner.Dot))
	progress.Style = lipgloss.NewStyle().Foreground(theme.ScrollbarThumb)

	helpModel := help.New()
	helpModel.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.FaintText)
	helpModel.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.HelpText)
	helpModel.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.BorderColor)

	return Model{
		controller:  config.Controller,
		view:        config.View,
		loop:        config.Loop,
		keys:        keys,
		theme:       theme,
		title:       config.Title,
		openOnStart: config.OpenOnStart,
		spinner:     progress,
		help:        helpModel,
		width:       defaultWidth,
		height:      defaultHeight,
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	if model.openOnStart {
		model.controller.Open()
	}
	return tea.Batch(model.spinner.Tick, textinput.Blink)
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var command tea.Cmd

	switch message := message.(type) {
	case drainMsg:
		model.loop.Drain()

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case tea.KeyMsg:
		var quit bool
		command, quit = model.handleKey(message)
		if quit {
			return model, tea.Quit
		}

	case tea.MouseMsg:
		model.handleMouse(message)

	case spinner.TickMsg:
		model.spinner, command = model.spinner.Update(message)

	case errorFadeMsg:
		if message.sequence == model.view.errorSequence {
			model.view.errorText = ""
		}

	case logFadeMsg:
		if message.sequence == model.view.logSequence {
			model.view.logSummary = ""
			model.view.logLevel = logNone
		}

	default:
		model.view.input, command = model.view.input.Update(message)
	}

	return model, tea.Batch(command, model.fadeCommands())
}

// handleKey routes a key press. Returns quit when the program should
// exit.
func (model *Model) handleKey(message tea.KeyMsg) (command tea.Cmd, quit bool) {
	if key.Matches(message, model.keys.Quit) {
		return nil, true
	}

	event := KeyEvent(message)
	if !model.controller.State().Open() {
		if model.controller.HandleChord(event) {
			return textinput.Blink, false
		}
		return nil, key.Matches(message, model.keys.Exit)
	}

	switch {
	case key.Matches(message, model.keys.Preview):
		model.preview = !model.preview
		return nil, false
	case key.Matches(message, model.keys.PageUp):
		model.movePage(-1)
		return nil, false
	case key.Matches(message, model.keys.PageDown):
		model.movePage(1)
		return nil, false
	}

	if model.controller.HandleKey(event) {
		return nil, false
	}

	before := model.view.input.Value()
	model.view.input, command = model.view.input.Update(message)
	if after := model.view.input.Value(); after != before {
		model.controller.SetInput(after)
	}
	return command, false
}

// movePage moves the highlight by one page, stopping at either end.
func (model *Model) movePage(direction int) {
	count := model.view.Rows()
	if count == 0 {
		return
	}
	target := model.view.Highlighted()
	if target == selection.None {
		target = 0
	} else {
		target += direction * model.view.rows
	}
	model.controller.Highlight(max(0, min(target, count-1)))
}

func (model *Model) handleMouse(message tea.MouseMsg) {
	if !model.controller.State().Open() {
		return
	}

	switch message.Button {
	case tea.MouseButtonWheelUp:
		model.controller.HandleKey(palette.KeyEvent{Key: palette.KeyUp})
		return
	case tea.MouseButtonWheelDown:
		model.controller.HandleKey(palette.KeyEvent{Key: palette.KeyDown})
		return
	}

	index := model.view.RowAt(model.width, message.X, message.Y)
	if index == selection.None {
		return
	}
	switch {
	case message.Action == tea.MouseActionMotion:
		if index != model.view.Highlighted() {
			model.controller.Highlight(index)
		}
	case message.Action == tea.MouseActionPress && message.Button == tea.MouseButtonLeft:
		model.controller.Highlight(index)
		// Commit only fails when nothing is highlighted, which the
		// line above rules out.
		_ = model.controller.Commit()
	}
}

// fadeCommands schedules clearing of a newly shown error or log record.
func (model *Model) fadeCommands() tea.Cmd {
	var commands []tea.Cmd
	if model.view.errorPending {
		model.view.errorPending = false
		sequence := model.view.errorSequence
		commands = append(commands, tea.Tick(errorFadeDelay, func(time.Time) tea.Msg {
			return errorFadeMsg{sequence: sequence}
		}))
	}
	if model.view.logPending {
		model.view.logPending = false
		sequence := model.view.logSequence
		commands = append(commands, tea.Tick(logFadeDelay, func(time.Time) tea.Msg {
			return logFadeMsg{sequence: sequence}
		}))
	}
	return tea.Batch(commands...)
}

// View implements tea.Model.
func (model Model) View() string {
	bodyHeight := max(model.height-1, 1)
	screen := model.renderBackground(bodyHeight)

	if model.view.Visible() {
		x, y, _ := panelGeometry(model.width)
		screen = spliceOverlay(screen, model.view.render(model.width, model.preview), x, y)
		// The overlay may extend past a short terminal.
		lines := strings.Split(screen, "\n")
		if len(lines) > bodyHeight {
			screen = strings.Join(lines[:bodyHeight], "\n")
		}
	}

	return screen + "\n" + model.statusLine()
}

func (model Model) renderBackground(height int) string {
	titleStyle := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var content []string
	if model.title != "" {
		content = append(content, titleStyle.Render(model.title), "")
	}
	content = append(content, hintStyle.Render("Press "+model.controller.Chord().String()+" to open the command palette"))

	return lipgloss.Place(model.width, height, lipgloss.Center, lipgloss.Center, strings.Join(content, "\n"))
}

func (model Model) statusLine() string {
	view := model.view
	switch {
	case view.errorText != "":
		style := lipgloss.NewStyle().Foreground(model.theme.ErrorForeground)
		return style.Render(truncate("✗ "+view.errorText, model.width))
	case view.logSummary != "":
		color := model.theme.WarningForeground
		if view.logLevel == logError {
			color = model.theme.ErrorForeground
		}
		return lipgloss.NewStyle().Foreground(color).Render(truncate(view.logSummary, model.width))
	case model.controller.State() == palette.Searching:
		return model.spinner.View() + lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(" searching")
	}
	return model.help.ShortHelpView(model.helpBindings())
}

func (model Model) helpBindings() []key.Binding {
	if !model.controller.State().Open() {
		chord := model.controller.Chord().String()
		open := key.NewBinding(key.WithKeys(chord), key.WithHelp(chord, "open palette"))
		return []key.Binding{open, model.keys.Exit}
	}
	if model.controller.State() == palette.AwaitingArgument {
		return []key.Binding{model.keys.Run, model.keys.Close, model.keys.Quit}
	}
	return []key.Binding{model.keys.Navigate, model.keys.Run, model.keys.Close, model.keys.Preview, model.keys.Quit}
}
