// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import (
	"fmt"
	"strings"
)

// Named keys the controller interprets while open.
const (
	KeyUp     = "up"
	KeyDown   = "down"
	KeyEnter  = "enter"
	KeyEscape = "esc"
)

// Modifiers is a set of active modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

var modifierNames = []struct {
	modifier Modifiers
	name     string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModMeta, "meta"},
}

// ParseModifier returns the modifier named name. "control", "option",
// "cmd", and "super" are accepted as synonyms.
func ParseModifier(name string) (Modifiers, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ctrl", "control":
		return ModCtrl, nil
	case "alt", "option":
		return ModAlt, nil
	case "shift":
		return ModShift, nil
	case "meta", "cmd", "super":
		return ModMeta, nil
	}
	return 0, fmt.Errorf("unknown modifier %q (expected ctrl, alt, shift, or meta)", name)
}

// Has reports whether every modifier in other is in modifiers.
func (modifiers Modifiers) Has(other Modifiers) bool {
	return modifiers&other == other
}

// String renders the set as "ctrl+shift", in canonical order.
func (modifiers Modifiers) String() string {
	var parts []string
	for _, entry := range modifierNames {
		if modifiers.Has(entry.modifier) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "+")
}

// KeyEvent is one key press: the key name (a lower-case character or a
// named key such as KeyEnter) and the modifiers held with it.
type KeyEvent struct {
	Key       string
	Modifiers Modifiers
}

// Chord is the key combination that opens the palette. It matches a
// KeyEvent only when the key is the same and the modifier sets are
// identical; extra held modifiers prevent a match.
type Chord struct {
	Key       string
	Modifiers Modifiers
}

// NewChord builds a chord from a key name and modifier names.
func NewChord(key string, modifiers []string) (Chord, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return Chord{}, fmt.Errorf("chord key is required")
	}
	chord := Chord{Key: key}
	for _, name := range modifiers {
		modifier, err := ParseModifier(name)
		if err != nil {
			return Chord{}, err
		}
		chord.Modifiers |= modifier
	}
	return chord, nil
}

// ParseChord parses "ctrl+shift+p" notation. The last element is the
// key; the others are modifiers.
func ParseChord(text string) (Chord, error) {
	parts := strings.Split(text, "+")
	chord, err := NewChord(parts[len(parts)-1], parts[:len(parts)-1])
	if err != nil {
		return Chord{}, fmt.Errorf("parsing chord %q: %w", text, err)
	}
	return chord, nil
}

// Matches reports whether event is exactly this chord.
func (chord Chord) Matches(event KeyEvent) bool {
	return strings.EqualFold(chord.Key, event.Key) && chord.Modifiers == event.Modifiers
}

// String renders the chord in ParseChord notation.
func (chord Chord) String() string {
	if chord.Modifiers == 0 {
		return chord.Key
	}
	return chord.Modifiers.String() + "+" + chord.Key
}
