// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/palette/lib/palette"
)

// KeyMap holds the bindings the model handles itself. Navigation,
// commit, and escape go through the controller, which owns their
// meaning.
type KeyMap struct {
	// Quit exits the program from any state.
	Quit key.Binding

	// Exit quits while the palette is closed.
	Exit key.Binding

	// Preview toggles the description pane for the highlighted command.
	Preview key.Binding

	// Scroll the dropdown by a page.
	PageUp   key.Binding
	PageDown key.Binding

	// Help-only bindings describing keys the controller interprets.
	Navigate key.Binding
	Run      key.Binding
	Close    key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
	Exit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Preview: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "preview"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "page down"),
	),
	Navigate: key.NewBinding(
		key.WithKeys("up", "down"),
		key.WithHelp("↑/↓", "select"),
	),
	Run: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "run"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
}

// modifierPrefixes are the prefixes bubbletea puts on key names, in the
// order it emits them.
var modifierPrefixes = []struct {
	prefix   string
	modifier palette.Modifiers
}{
	{"alt+", palette.ModAlt},
	{"ctrl+", palette.ModCtrl},
	{"shift+", palette.ModShift},
}

// KeyEvent converts a bubbletea key message to the controller's key
// representation. Modifier prefixes become Modifiers; the remainder is
// the key name, which for named keys ("up", "enter", "esc") already
// matches the palette constants. Shifted printable characters arrive as
// the upper-case rune with no ModShift, since terminals do not report
// shift separately for them.
func KeyEvent(message tea.KeyMsg) palette.KeyEvent {
	name := message.String()
	var modifiers palette.Modifiers
	for stripped := true; stripped; {
		stripped = false
		for _, entry := range modifierPrefixes {
			// "alt++" is alt with the plus key, so a prefix must leave
			// something behind.
			if len(name) > len(entry.prefix) && strings.HasPrefix(name, entry.prefix) {
				name = name[len(entry.prefix):]
				modifiers |= entry.modifier
				stripped = true
			}
		}
	}
	if name == " " {
		name = "space"
	}
	return palette.KeyEvent{Key: name, Modifiers: modifiers}
}
