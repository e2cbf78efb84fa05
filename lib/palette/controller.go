// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bureau-foundation/palette/lib/clock"
	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/selection"
	"github.com/bureau-foundation/palette/lib/source"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search is dispatched.
const DefaultDebounce = 200 * time.Millisecond

// DefaultLabel is shown before the input field outside argument mode.
const DefaultLabel = "Command"

// DefaultChord opens the palette when none is configured.
var DefaultChord = Chord{Key: "p", Modifiers: ModCtrl}

// Config configures a Controller.
type Config struct {
	// Chord opens the palette. Defaults to DefaultChord.
	Chord Chord

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Label defaults to DefaultLabel.
	Label string

	// Sources are searched in order on every dispatch. Their results
	// are appended in arrival order.
	Sources []source.Source

	// Matcher's pattern cache is reset whenever the palette closes.
	// Optional.
	Matcher *match.Matcher

	// Renderer, Executor, Loop, and Logger are required.
	Renderer Renderer
	Executor Executor
	Loop     EventLoop
	Logger   *slog.Logger

	// Clock drives the debounce timer. Defaults to clock.Real().
	Clock clock.Clock

	// Context is passed to source searches and action execution.
	// Defaults to context.Background().
	Context context.Context
}

// ExecutedFunc observes every command execution.
type ExecutedFunc func(executed *command.Command, argument string)

// Controller owns one palette's lifecycle. All methods must be called
// from the configured event loop.
type Controller struct {
	chord    Chord
	debounce time.Duration
	label    string
	sources  []source.Source
	matcher  *match.Matcher
	renderer Renderer
	executor Executor
	loop     EventLoop
	clock    clock.Clock
	logger   *slog.Logger
	ctx      context.Context

	state     State
	selection *selection.State[*command.Command]
	session   *session
	hooks     []ExecutedFunc

	// generation identifies the current search. Deliveries carrying an
	// older generation are dropped.
	generation uint64

	// timer is the single debounce slot. timerGeneration invalidates a
	// timer whose callback was already posted when it was replaced.
	timer           *clock.Timer
	timerGeneration uint64

	// visible tracks the palette's show/hide transitions as reported
	// by the renderer's completion callbacks.
	visible bool
}

// session is the state that exists only while the palette is open.
type session struct {
	// input is the current text of the input field.
	input string

	// dispatched is the trimmed query of the most recent search.
	dispatched string

	// pending counts sources that have not delivered for the current
	// generation.
	pending int

	// dropdownShown is true while the dropdown is visible.
	dropdownShown bool

	// awaiting is the command collecting an argument, in
	// AwaitingArgument.
	awaiting *command.Command
}

// New validates config and returns a closed controller.
func New(config Config) (*Controller, error) {
	if config.Renderer == nil {
		return nil, fmt.Errorf("palette: Renderer is required")
	}
	if config.Executor == nil {
		return nil, fmt.Errorf("palette: Executor is required")
	}
	if config.Loop == nil {
		return nil, fmt.Errorf("palette: Loop is required")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("palette: Logger is required")
	}
	if config.Debounce < 0 {
		return nil, fmt.Errorf("palette: negative debounce %v", config.Debounce)
	}

	controller := &Controller{
		chord:    config.Chord,
		debounce: config.Debounce,
		label:    config.Label,
		sources:  append([]source.Source(nil), config.Sources...),
		matcher:  config.Matcher,
		renderer: config.Renderer,
		executor: config.Executor,
		loop:     config.Loop,
		clock:    config.Clock,
		logger:   config.Logger,
		ctx:      config.Context,
		state:    Closed,
	}
	if controller.chord.Key == "" {
		controller.chord = DefaultChord
	}
	if controller.debounce == 0 {
		controller.debounce = DefaultDebounce
	}
	if controller.label == "" {
		controller.label = DefaultLabel
	}
	if controller.clock == nil {
		controller.clock = clock.Real()
	}
	if controller.ctx == nil {
		controller.ctx = context.Background()
	}
	controller.selection = selection.New[*command.Command](config.Renderer)
	return controller, nil
}

// OnCommandExecuted registers hook to run after every command
// execution, whether or not the action succeeded.
func (controller *Controller) OnCommandExecuted(hook ExecutedFunc) {
	controller.hooks = append(controller.hooks, hook)
}

// State returns the lifecycle state.
func (controller *Controller) State() State {
	return controller.state
}

// Chord returns the chord that opens the palette.
func (controller *Controller) Chord() Chord {
	return controller.chord
}

// Visible reports whether the renderer has finished showing the
// palette and not yet finished hiding it.
func (controller *Controller) Visible() bool {
	return controller.visible
}

// Label returns the label currently shown before the input.
func (controller *Controller) Label() string {
	if controller.state == AwaitingArgument {
		return controller.session.awaiting.ArgumentPrompt()
	}
	return controller.label
}

// Input returns the input field's text, or "" when closed.
func (controller *Controller) Input() string {
	if controller.session == nil {
		return ""
	}
	return controller.session.input
}

// Items returns the dropdown's commands in display order.
func (controller *Controller) Items() []*command.Command {
	return controller.selection.Items()
}

// Highlighted returns the highlighted dropdown row, or selection.None.
func (controller *Controller) Highlighted() int {
	return controller.selection.Highlighted()
}

// Awaiting returns the command collecting an argument, or nil.
func (controller *Controller) Awaiting() *command.Command {
	if controller.session == nil {
		return nil
	}
	return controller.session.awaiting
}

// Open shows the palette in the Idle state. No-op when already open.
func (controller *Controller) Open() {
	if controller.state.Open() {
		return
	}
	controller.session = &session{}
	controller.state = Idle
	controller.renderer.SetLabel(controller.label)
	controller.renderer.SetInput("")
	controller.renderer.Show(TargetPalette, func() {
		controller.loop.Post(func() { controller.visible = true })
	})
	controller.logger.Debug("palette opened")
}

// Close hides the palette and discards the session: the pending
// debounce timer, in-flight searches, the query, the dropdown, and
// argument mode. No-op when already closed.
func (controller *Controller) Close() {
	if !controller.state.Open() {
		return
	}
	controller.stopTimer()
	controller.generation++
	controller.selection.Clear()
	controller.hideDropdown()
	controller.session = nil
	controller.state = Closed

	controller.renderer.SetInput("")
	controller.renderer.SetLabel(controller.label)
	controller.renderer.Hide(TargetPalette, func() {
		controller.loop.Post(func() { controller.visible = false })
	})
	if controller.matcher != nil {
		controller.matcher.Reset()
	}
	controller.logger.Debug("palette closed")
}

// HandleChord opens the palette if event is exactly the configured
// chord, and reports whether it was.
func (controller *Controller) HandleChord(event KeyEvent) bool {
	if !controller.chord.Matches(event) {
		return false
	}
	controller.Open()
	return true
}

// HandleKey interprets a navigation key while the palette is open and
// reports whether it was consumed. Text-editing keys are not consumed;
// the host applies them to its input field and calls SetInput.
func (controller *Controller) HandleKey(event KeyEvent) bool {
	if !controller.state.Open() || event.Modifiers != 0 {
		return false
	}

	var err error
	switch event.Key {
	case KeyUp:
		if controller.state != AwaitingArgument {
			controller.selection.Prev()
		}
	case KeyDown:
		if controller.state != AwaitingArgument {
			controller.selection.Next()
		}
	case KeyEnter:
		if controller.state == AwaitingArgument {
			err = controller.SubmitArgument(controller.session.input)
		} else {
			err = controller.Commit()
		}
	case KeyEscape:
		controller.Cancel()
	default:
		return false
	}

	if err != nil {
		controller.logger.Debug("ignored key", "key", event.Key, "state", controller.state, "error", err)
	}
	return true
}

// SetInput records the input field's text. Outside argument mode it
// (re)starts the debounce timer; only the last call within the
// debounce window leads to a search.
func (controller *Controller) SetInput(text string) {
	switch controller.state {
	case Closed:
		return
	case AwaitingArgument:
		controller.session.input = text
		return
	}
	controller.session.input = text
	controller.restartTimer()
}

// Highlight moves the dropdown highlight to index, as pointer hover
// does.
func (controller *Controller) Highlight(index int) {
	if controller.state == Closed || controller.state == AwaitingArgument {
		return
	}
	controller.selection.Highlight(index)
}

// Commit executes the highlighted command, or enters argument mode if
// it requires one. Returns ErrIllegalTransition when nothing is
// highlighted or the palette is not showing results.
func (controller *Controller) Commit() error {
	if !controller.state.Open() || controller.state == AwaitingArgument {
		return ErrIllegalTransition
	}
	committed, ok := controller.selection.Commit()
	if !ok {
		return ErrIllegalTransition
	}
	controller.hideDropdown()

	if committed.RequiresArgument() {
		controller.enterArgumentMode(committed)
		return nil
	}
	controller.execute(committed, "")
	controller.Close()
	return nil
}

// SubmitArgument executes the awaiting command with argument and closes
// the palette. Returns ErrIllegalTransition outside argument mode.
func (controller *Controller) SubmitArgument(argument string) error {
	if controller.state != AwaitingArgument {
		return ErrIllegalTransition
	}
	awaiting := controller.session.awaiting
	controller.execute(awaiting, argument)
	controller.Close()
	return nil
}

// Cancel handles Escape: it leaves argument mode back to Idle, and
// closes the palette from any other open state.
func (controller *Controller) Cancel() {
	if controller.state != AwaitingArgument {
		controller.Close()
		return
	}
	controller.session.awaiting = nil
	controller.session.input = ""
	controller.session.dispatched = ""
	controller.state = Idle
	controller.renderer.SetLabel(controller.label)
	controller.renderer.SetInput("")
}

func (controller *Controller) enterArgumentMode(awaiting *command.Command) {
	// Results still in flight belong to the query that found this
	// command; they must not reopen the dropdown.
	controller.stopTimer()
	controller.generation++

	controller.session.awaiting = awaiting
	controller.session.input = awaiting.ArgumentDefault
	controller.state = AwaitingArgument
	controller.renderer.SetLabel(awaiting.ArgumentPrompt())
	controller.renderer.SetInput(awaiting.ArgumentDefault)
	controller.logger.Debug("awaiting argument", "command", awaiting.Name)
}

func (controller *Controller) execute(target *command.Command, argument string) {
	logger := controller.logger.With("command", target.Name, "action", target.Action.Kind)
	if err := controller.executor.Execute(controller.ctx, target, argument); err != nil {
		logger.Warn("command failed", "error", err)
		controller.renderer.ShowError(fmt.Errorf("%s: %w", target.Name, err))
	} else {
		logger.Info("command executed")
	}
	for _, hook := range controller.hooks {
		hook(target, argument)
	}
}

func (controller *Controller) restartTimer() {
	controller.stopTimer()
	generation := controller.timerGeneration
	controller.timer = controller.clock.AfterFunc(controller.debounce, func() {
		controller.loop.Post(func() { controller.debounceFired(generation) })
	})
}

// stopTimer cancels the pending debounce and invalidates a callback
// that may already be queued on the loop.
func (controller *Controller) stopTimer() {
	controller.timer.Stop()
	controller.timer = nil
	controller.timerGeneration++
}

func (controller *Controller) debounceFired(generation uint64) {
	if generation != controller.timerGeneration {
		return
	}
	if controller.state == Closed || controller.state == AwaitingArgument {
		return
	}
	controller.timer = nil

	query := strings.TrimSpace(controller.session.input)
	switch {
	case query == "":
		controller.generation++
		controller.session.dispatched = ""
		controller.session.pending = 0
		controller.selection.Clear()
		controller.hideDropdown()
		controller.state = Idle
	case query == controller.session.dispatched:
		controller.logger.Debug("query unchanged, not searching", "query", query)
	default:
		controller.dispatch(query)
	}
}

func (controller *Controller) dispatch(query string) {
	controller.generation++
	generation := controller.generation

	controller.session.dispatched = query
	controller.session.pending = len(controller.sources)
	controller.selection.Clear()
	controller.hideDropdown()
	controller.state = Searching
	if len(controller.sources) == 0 {
		controller.state = Results
	}

	controller.logger.Debug("dispatching search", "query", query, "sources", len(controller.sources))
	for _, searched := range controller.sources {
		searched.Search(controller.ctx, query, func(commands []*command.Command) {
			controller.loop.Post(func() {
				controller.deliver(generation, searched, query, commands)
			})
		})
	}
}

func (controller *Controller) deliver(generation uint64, from source.Source, query string, commands []*command.Command) {
	if generation != controller.generation || controller.state == Closed || controller.state == AwaitingArgument {
		controller.logger.Debug("dropping stale results", "source", from.Name(), "query", query)
		return
	}

	controller.session.pending--
	if len(commands) > 0 {
		controller.selection.Append(commands...)
		controller.renderer.RenderList(controller.selection.Items(), query)
		controller.showDropdown()
	}

	if controller.session.pending <= 0 || controller.selection.Len() > 0 {
		controller.state = Results
	}
	if controller.session.pending <= 0 && controller.selection.Len() == 0 {
		controller.hideDropdown()
	}
}

func (controller *Controller) showDropdown() {
	if controller.session.dropdownShown {
		return
	}
	controller.session.dropdownShown = true
	controller.renderer.Show(TargetDropdown, nil)
}

func (controller *Controller) hideDropdown() {
	if controller.session == nil || !controller.session.dropdownShown {
		return
	}
	controller.session.dropdownShown = false
	controller.renderer.Hide(TargetDropdown, nil)
}
