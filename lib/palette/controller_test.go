// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/palette/lib/clock"
	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/selection"
	"github.com/bureau-foundation/palette/lib/source"
	"github.com/bureau-foundation/palette/lib/testutil"
)

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeRenderer records what the controller asked it to draw. Show and
// Hide complete immediately.
type fakeRenderer struct {
	items     []string
	query     string
	highlight int
	scrolled  []int
	label     string
	input     string
	shown     map[Target]bool
	errors    []error
	renders   int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{highlight: selection.None, shown: make(map[Target]bool)}
}

func (renderer *fakeRenderer) RenderList(commands []*command.Command, query string) {
	renderer.renders++
	renderer.items = commandNames(commands)
	renderer.query = query
}

func (renderer *fakeRenderer) SetHighlight(index int)   { renderer.highlight = index }
func (renderer *fakeRenderer) ScrollIntoView(index int) { renderer.scrolled = append(renderer.scrolled, index) }
func (renderer *fakeRenderer) SetLabel(label string)    { renderer.label = label }
func (renderer *fakeRenderer) SetInput(text string)     { renderer.input = text }
func (renderer *fakeRenderer) ShowError(err error)      { renderer.errors = append(renderer.errors, err) }

func (renderer *fakeRenderer) Show(target Target, done func()) {
	renderer.shown[target] = true
	if done != nil {
		done()
	}
}

func (renderer *fakeRenderer) Hide(target Target, done func()) {
	renderer.shown[target] = false
	if done != nil {
		done()
	}
}

type execution struct {
	name     string
	argument string
}

// recordingExecutor records executions and runs invoke functions.
type recordingExecutor struct {
	executions []execution
	err        error
}

func (executor *recordingExecutor) Execute(ctx context.Context, target *command.Command, argument string) error {
	executor.executions = append(executor.executions, execution{target.Name, argument})
	if executor.err != nil {
		return executor.err
	}
	if target.Action.Kind == command.ActionInvoke {
		return target.Action.Function(ctx, argument)
	}
	return nil
}

// scriptedSource records searches; the test delivers results by hand.
type scriptedSource struct {
	name string

	mutex    sync.Mutex
	queries  []string
	delivers []func([]*command.Command)
}

func (scripted *scriptedSource) Name() string { return scripted.name }

func (scripted *scriptedSource) Search(ctx context.Context, query string, deliver func([]*command.Command)) {
	scripted.mutex.Lock()
	defer scripted.mutex.Unlock()
	scripted.queries = append(scripted.queries, query)
	scripted.delivers = append(scripted.delivers, deliver)
}

func (scripted *scriptedSource) searched() []string {
	scripted.mutex.Lock()
	defer scripted.mutex.Unlock()
	return slices.Clone(scripted.queries)
}

// respond delivers commands to the index'th search.
func (scripted *scriptedSource) respond(index int, commands ...*command.Command) {
	scripted.mutex.Lock()
	deliver := scripted.delivers[index]
	scripted.mutex.Unlock()
	deliver(commands)
}

type harness struct {
	t          *testing.T
	controller *Controller
	renderer   *fakeRenderer
	executor   *recordingExecutor
	loop       *testutil.Queue
	clock      *clock.FakeClock
	matcher    *match.Matcher
}

func newHarness(t *testing.T, sources ...source.Source) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		renderer: newFakeRenderer(),
		executor: &recordingExecutor{},
		loop:     testutil.NewQueue(),
		clock:    clock.Fake(testEpoch),
		matcher:  match.New(0),
	}
	controller, err := New(Config{
		Sources:  sources,
		Matcher:  h.matcher,
		Renderer: h.renderer,
		Executor: h.executor,
		Loop:     h.loop,
		Clock:    h.clock,
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.controller = controller
	return h
}

// typeText sets the input and lets the debounce interval elapse.
func (h *harness) typeText(text string) {
	h.controller.SetInput(text)
	h.settle()
}

// settle fires the debounce timer and runs everything it posted.
func (h *harness) settle() {
	h.clock.Advance(DefaultDebounce)
	h.loop.Drain()
}

// drainUntil runs posted callbacks, waiting for deliveries from
// source goroutines, until condition holds.
func (h *harness) drainUntil(condition func() bool) {
	h.t.Helper()
	for h.loop.Drain(); !condition(); h.loop.Drain() {
		h.loop.WaitFor(h.t, 1, 5*time.Second)
	}
}

func (h *harness) key(name string) bool {
	return h.controller.HandleKey(KeyEvent{Key: name})
}

func commandNames(commands []*command.Command) []string {
	names := make([]string, len(commands))
	for index, candidate := range commands {
		names[index] = candidate.Name
	}
	return names
}

func navigate(name string, aliases ...string) *command.Command {
	return command.MustNew(command.Spec{
		Name:    name,
		Aliases: aliases,
		Action:  command.Action{Kind: command.ActionNavigate, URLTemplate: "https://example.com/{argument}"},
	})
}

func TestNewRequiresCapabilities(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	complete := Config{
		Renderer: newFakeRenderer(),
		Executor: &recordingExecutor{},
		Loop:     testutil.NewQueue(),
		Logger:   logger,
	}
	if _, err := New(complete); err != nil {
		t.Fatalf("New with every capability: %v", err)
	}

	for name, mutate := range map[string]func(*Config){
		"renderer": func(config *Config) { config.Renderer = nil },
		"executor": func(config *Config) { config.Executor = nil },
		"loop":     func(config *Config) { config.Loop = nil },
		"logger":   func(config *Config) { config.Logger = nil },
		"debounce": func(config *Config) { config.Debounce = -time.Second },
	} {
		config := complete
		mutate(&config)
		if _, err := New(config); err == nil {
			t.Errorf("New without %s succeeded", name)
		}
	}
}

func TestChordOpensPalette(t *testing.T) {
	h := newHarness(t)
	if h.controller.HandleChord(KeyEvent{Key: "p", Modifiers: ModCtrl | ModShift}) {
		t.Fatal("chord with an extra modifier opened the palette")
	}
	if h.controller.State() != Closed {
		t.Fatalf("state = %v, want closed", h.controller.State())
	}
	if !h.controller.HandleChord(KeyEvent{Key: "p", Modifiers: ModCtrl}) {
		t.Fatal("configured chord was not consumed")
	}
	if h.controller.State() != Idle {
		t.Errorf("state = %v, want idle", h.controller.State())
	}
	if !h.renderer.shown[TargetPalette] || h.renderer.label != DefaultLabel {
		t.Errorf("renderer after open: shown=%v label=%q", h.renderer.shown, h.renderer.label)
	}
	h.loop.Drain()
	if !h.controller.Visible() {
		t.Error("Visible() = false after the show transition completed")
	}
}

func TestDebounceDispatchesOnlyFinalQuery(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()

	for _, text := range []string{"g", "go", "goo", "goog"} {
		h.controller.SetInput(text)
		h.clock.Advance(DefaultDebounce / 2)
		h.loop.Drain()
	}
	if got := scripted.searched(); len(got) != 0 {
		t.Fatalf("searched %v before input went quiet", got)
	}
	if pending := h.clock.PendingCount(); pending != 1 {
		t.Errorf("PendingCount() = %d, want a single live debounce timer", pending)
	}

	h.settle()
	if got := scripted.searched(); !slices.Equal(got, []string{"goog"}) {
		t.Errorf("searched %v, want exactly [goog]", got)
	}
	if h.controller.State() != Searching {
		t.Errorf("state = %v, want searching", h.controller.State())
	}
}

func TestBlankQueryDoesNotDispatch(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()

	h.typeText("go")
	scripted.respond(0, navigate("Google Search"))
	h.loop.Drain()
	if !h.renderer.shown[TargetDropdown] {
		t.Fatal("dropdown not shown after results arrived")
	}

	h.typeText("   ")
	if got := scripted.searched(); !slices.Equal(got, []string{"go"}) {
		t.Errorf("searched %v, want only [go]", got)
	}
	if h.renderer.shown[TargetDropdown] {
		t.Error("dropdown still visible for a blank query")
	}
	if len(h.controller.Items()) != 0 || h.controller.State() != Idle {
		t.Errorf("after blank query: items=%v state=%v", commandNames(h.controller.Items()), h.controller.State())
	}
}

func TestUnchangedQueryDoesNotRedispatch(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()

	h.typeText("go")
	h.typeText(" go  ")
	h.typeText("go")
	if got := scripted.searched(); !slices.Equal(got, []string{"go"}) {
		t.Errorf("searched %v, want [go] once", got)
	}

	// Clearing the field forgets the last query, so typing it again
	// searches again.
	h.typeText("")
	h.typeText("go")
	if got := scripted.searched(); !slices.Equal(got, []string{"go", "go"}) {
		t.Errorf("searched %v, want [go go]", got)
	}
}

func TestResultsMergeAdditivelyInArrivalOrder(t *testing.T) {
	fast := &scriptedSource{name: "fast"}
	slow := &scriptedSource{name: "slow"}
	h := newHarness(t, slow, fast)
	h.controller.Open()
	h.typeText("go")

	fast.respond(0, navigate("Go To URL"))
	h.loop.Drain()
	if h.controller.State() != Results {
		t.Errorf("state after first delivery = %v, want results", h.controller.State())
	}
	h.key(KeyDown)

	slow.respond(0, navigate("Google Search"), navigate("Google Maps"))
	h.loop.Drain()

	want := []string{"Go To URL", "Google Search", "Google Maps"}
	if got := commandNames(h.controller.Items()); !slices.Equal(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
	if !slices.Equal(h.renderer.items, want) || h.renderer.query != "go" {
		t.Errorf("rendered %v for %q, want %v for go", h.renderer.items, h.renderer.query, want)
	}
	if h.controller.Highlighted() != 0 {
		t.Errorf("highlight moved to %d when later results arrived", h.controller.Highlighted())
	}
}

func TestNewSearchReplacesPreviousResults(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()

	h.typeText("go")
	h.typeText("log")
	// The response for "go" lands after "log" was dispatched.
	scripted.respond(0, navigate("Google Search"))
	scripted.respond(1, navigate("Logout"))
	h.loop.Drain()

	if got := commandNames(h.controller.Items()); !slices.Equal(got, []string{"Logout"}) {
		t.Errorf("items = %v, want [Logout]", got)
	}
}

func TestEscapeClosesAndDiscardsInFlightSearch(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()
	h.typeText("go")

	if !h.key(KeyEscape) {
		t.Fatal("Escape was not consumed")
	}
	if h.controller.State() != Closed {
		t.Fatalf("state = %v, want closed", h.controller.State())
	}

	scripted.respond(0, navigate("Google Search"))
	h.loop.Drain()
	if h.renderer.renders != 0 || len(h.controller.Items()) != 0 {
		t.Errorf("stale delivery rendered %v after close", h.renderer.items)
	}
	if h.renderer.shown[TargetPalette] || h.controller.Visible() {
		t.Error("palette still visible after Escape")
	}
}

func TestCloseInvalidatesDebounceTimer(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)

	// Timer still pending at close.
	h.controller.Open()
	h.controller.SetInput("go")
	h.controller.Close()
	h.settle()

	// Timer fired and posted, but close ran before the loop did.
	h.controller.Open()
	h.controller.SetInput("log")
	h.clock.Advance(DefaultDebounce)
	h.controller.Close()
	h.loop.Drain()

	if got := scripted.searched(); len(got) != 0 {
		t.Errorf("searched %v after close", got)
	}
	if h.controller.Input() != "" || h.renderer.input != "" {
		t.Errorf("input survived close: %q / %q", h.controller.Input(), h.renderer.input)
	}
}

func TestCloseResetsMatcherCache(t *testing.T) {
	h := newHarness(t)
	h.matcher.Compile("go")
	h.controller.Open()
	h.controller.Close()
	if h.matcher.CacheLen() != 0 {
		t.Errorf("pattern cache holds %d entries after close", h.matcher.CacheLen())
	}
}

func TestCommitWithNothingHighlightedIsIllegal(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()
	h.typeText("log")
	scripted.respond(0, navigate("Logout"))
	h.loop.Drain()

	if err := h.controller.Commit(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Commit() = %v, want ErrIllegalTransition", err)
	}
	if !h.key(KeyEnter) {
		t.Error("Enter was not consumed")
	}
	if len(h.executor.executions) != 0 {
		t.Errorf("executed %v with nothing highlighted", h.executor.executions)
	}
	if h.controller.State() != Results || len(h.controller.Items()) != 1 {
		t.Errorf("state changed: %v items=%v", h.controller.State(), commandNames(h.controller.Items()))
	}
}

func TestSubmitArgumentOutsideArgumentModeIsIllegal(t *testing.T) {
	h := newHarness(t)
	if err := h.controller.SubmitArgument("cats"); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("SubmitArgument while closed = %v", err)
	}
	h.controller.Open()
	if err := h.controller.SubmitArgument("cats"); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("SubmitArgument while idle = %v", err)
	}
	if len(h.executor.executions) != 0 {
		t.Errorf("executed %v", h.executor.executions)
	}
}

func TestArgumentModeEscapeReturnsToIdle(t *testing.T) {
	search := command.MustNew(command.Spec{
		Name:            "Google Search",
		Argument:        command.Argument{Required: true, Label: "query"},
		ArgumentDefault: "golang",
		Action:          command.Action{Kind: command.ActionNavigate, URLTemplate: "https://www.google.com/search?q={argument}"},
	})
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()
	h.typeText("go")
	scripted.respond(0, search)
	h.loop.Drain()

	h.key(KeyDown)
	h.key(KeyEnter)
	if h.controller.State() != AwaitingArgument {
		t.Fatalf("state = %v, want awaiting-argument", h.controller.State())
	}
	if h.renderer.label != "Google Search (query)" || h.controller.Label() != "Google Search (query)" {
		t.Errorf("label = %q, want the argument prompt", h.renderer.label)
	}
	if h.renderer.input != "golang" || h.controller.Input() != "golang" {
		t.Errorf("input = %q, want the argument default", h.renderer.input)
	}
	if h.renderer.shown[TargetDropdown] {
		t.Error("dropdown visible in argument mode")
	}

	h.key(KeyEscape)
	if h.controller.State() != Idle {
		t.Fatalf("state after Escape = %v, want idle", h.controller.State())
	}
	if h.renderer.label != DefaultLabel || h.renderer.input != "" {
		t.Errorf("after Escape: label=%q input=%q", h.renderer.label, h.renderer.input)
	}
	if !h.renderer.shown[TargetPalette] {
		t.Error("Escape in argument mode closed the palette")
	}
	if len(h.executor.executions) != 0 {
		t.Errorf("executed %v", h.executor.executions)
	}
}

func TestArgumentModeIgnoresLateResults(t *testing.T) {
	search := command.MustNew(command.Spec{
		Name:     "Google Search",
		Argument: command.Argument{Required: true},
		Action:   command.Action{Kind: command.ActionNavigate, URLTemplate: "{argument}"},
	})
	fast := &scriptedSource{name: "fast"}
	slow := &scriptedSource{name: "slow"}
	h := newHarness(t, fast, slow)
	h.controller.Open()
	h.typeText("go")
	fast.respond(0, search)
	h.loop.Drain()

	h.key(KeyDown)
	h.key(KeyEnter)
	slow.respond(0, navigate("Go To URL"))
	h.loop.Drain()

	if len(h.controller.Items()) != 0 || h.renderer.shown[TargetDropdown] {
		t.Errorf("late results reopened the dropdown: %v", commandNames(h.controller.Items()))
	}
	h.controller.SetInput("typed")
	h.clock.Advance(DefaultDebounce)
	h.loop.Drain()
	if got := fast.searched(); len(got) != 1 {
		t.Errorf("typing an argument dispatched searches: %v", got)
	}
}

func TestFailedExecutionIsReportedAndCloses(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.executor.err = errors.New("opener not found")
	h.controller.Open()
	h.typeText("log")
	scripted.respond(0, navigate("Logout"))
	h.loop.Drain()

	h.key(KeyUp)
	h.key(KeyEnter)
	if h.controller.State() != Closed {
		t.Errorf("state = %v, want closed", h.controller.State())
	}
	if len(h.renderer.errors) != 1 || !errors.Is(h.renderer.errors[0], h.executor.err) {
		t.Errorf("reported errors = %v", h.renderer.errors)
	}
}

func TestPointerHighlight(t *testing.T) {
	scripted := &scriptedSource{name: "scripted"}
	h := newHarness(t, scripted)
	h.controller.Open()
	h.typeText("go")
	scripted.respond(0, navigate("Google Search"), navigate("Go To URL"))
	h.loop.Drain()

	h.controller.Highlight(1)
	if h.renderer.highlight != 1 || !slices.Equal(h.renderer.scrolled, []int{1}) {
		t.Errorf("highlight=%d scrolled=%v", h.renderer.highlight, h.renderer.scrolled)
	}
	if err := h.controller.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(h.executor.executions) != 1 || h.executor.executions[0].name != "Go To URL" {
		t.Errorf("executions = %v", h.executor.executions)
	}
}

// TestEndToEnd drives the palette through both command shapes: one
// that collects an argument and one that runs immediately.
func TestEndToEnd(t *testing.T) {
	var searched, loggedOut []string
	googleSearch := command.MustNew(command.Spec{
		Name:     "Google Search",
		Aliases:  []string{"Search"},
		Argument: command.Argument{Required: true},
		Action: command.Action{
			Kind:         command.ActionInvoke,
			FunctionName: "search",
			Function: func(ctx context.Context, argument string) error {
				searched = append(searched, argument)
				return nil
			},
		},
	})
	logout := command.MustNew(command.Spec{
		Name: "Logout",
		Action: command.Action{
			Kind:         command.ActionInvoke,
			FunctionName: "logout",
			Function: func(ctx context.Context, argument string) error {
				loggedOut = append(loggedOut, argument)
				return nil
			},
		},
	})

	matcher := match.New(0)
	local := source.NewLocal("builtin", command.NewCatalog(googleSearch, logout), matcher)
	h := newHarness(t, local)

	var observed []execution
	h.controller.OnCommandExecuted(func(executed *command.Command, argument string) {
		observed = append(observed, execution{executed.Name, argument})
	})

	// "go" finds exactly Google Search, which asks for an argument.
	h.controller.HandleChord(KeyEvent{Key: "p", Modifiers: ModCtrl})
	h.controller.SetInput("go")
	h.clock.Advance(DefaultDebounce)
	h.drainUntil(func() bool { return len(h.controller.Items()) > 0 })

	if got := commandNames(h.controller.Items()); !slices.Equal(got, []string{"Google Search"}) {
		t.Fatalf("items for go = %v, want [Google Search]", got)
	}
	h.key(KeyDown)
	h.key(KeyEnter)
	if h.controller.State() != AwaitingArgument || h.controller.Input() != "" {
		t.Fatalf("state=%v input=%q, want awaiting-argument with an empty field", h.controller.State(), h.controller.Input())
	}

	h.controller.SetInput("cats")
	h.key(KeyEnter)
	if !slices.Equal(searched, []string{"cats"}) {
		t.Errorf("search invoked with %v, want [cats]", searched)
	}
	if h.controller.State() != Closed {
		t.Fatalf("state after submit = %v, want closed", h.controller.State())
	}

	// "log" finds Logout, which runs immediately.
	h.controller.HandleChord(KeyEvent{Key: "p", Modifiers: ModCtrl})
	h.controller.SetInput("log")
	h.clock.Advance(DefaultDebounce)
	h.drainUntil(func() bool { return len(h.controller.Items()) > 0 })

	if got := commandNames(h.controller.Items()); !slices.Equal(got, []string{"Logout"}) {
		t.Fatalf("items for log = %v, want [Logout]", got)
	}
	h.key(KeyDown)
	h.key(KeyEnter)
	if !slices.Equal(loggedOut, []string{""}) {
		t.Errorf("logout invoked with %q, want one call with no argument", loggedOut)
	}
	if h.controller.State() != Closed {
		t.Errorf("state after logout = %v, want closed", h.controller.State())
	}

	want := []execution{{"Google Search", "cats"}, {"Logout", ""}}
	if !slices.Equal(observed, want) {
		t.Errorf("OnCommandExecuted saw %v, want %v", observed, want)
	}
}
