// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package selection

// None is the highlighted index when no item is highlighted.
const None = -1

// Scroller receives the rendering side effects of highlight changes.
type Scroller interface {
	// SetHighlight marks index as the highlighted row, or clears the
	// mark when index is None.
	SetHighlight(index int)

	// ScrollIntoView makes the row at index visible in its container.
	// Called on every transition into a highlighted state.
	ScrollIntoView(index int)
}

// State is the highlight state of a dropdown list of T.
type State[T any] struct {
	items       []T
	highlighted int
	scroller    Scroller
}

// New returns an empty State. scroller may be nil.
func New[T any](scroller Scroller) *State[T] {
	return &State[T]{highlighted: None, scroller: scroller}
}

// SetItems replaces the items wholesale and clears the highlight.
func (state *State[T]) SetItems(items []T) {
	state.items = append([]T(nil), items...)
	state.setHighlighted(None)
}

// Append adds items after the existing ones. The highlight is kept, so
// a row the user has moved to stays highlighted while later results
// arrive.
func (state *State[T]) Append(items ...T) {
	state.items = append(state.items, items...)
}

// Clear removes every item and clears the highlight.
func (state *State[T]) Clear() {
	state.items = nil
	state.setHighlighted(None)
}

// Next moves the highlight down one row. From the last row it moves to
// None, and from None to the first row. No-op on an empty list.
func (state *State[T]) Next() {
	if len(state.items) == 0 {
		return
	}
	switch {
	case state.highlighted == None:
		state.setHighlighted(0)
	case state.highlighted == len(state.items)-1:
		state.setHighlighted(None)
	default:
		state.setHighlighted(state.highlighted + 1)
	}
}

// Prev moves the highlight up one row. From the first row it moves to
// None, and from None to the last row. No-op on an empty list.
func (state *State[T]) Prev() {
	if len(state.items) == 0 {
		return
	}
	switch state.highlighted {
	case None:
		state.setHighlighted(len(state.items) - 1)
	case 0:
		state.setHighlighted(None)
	default:
		state.setHighlighted(state.highlighted - 1)
	}
}

// Highlight moves the highlight directly to index, as pointer hover
// does. An index outside the list clears the highlight.
func (state *State[T]) Highlight(index int) {
	if index < 0 || index >= len(state.items) {
		index = None
	}
	state.setHighlighted(index)
}

// Highlighted returns the highlighted index, or None.
func (state *State[T]) Highlighted() int {
	return state.highlighted
}

// Current returns the highlighted item. ok is false when nothing is
// highlighted.
func (state *State[T]) Current() (item T, ok bool) {
	if state.highlighted == None {
		return item, false
	}
	return state.items[state.highlighted], true
}

// Commit returns the highlighted item and empties the state. With
// nothing highlighted it returns ok=false and changes nothing.
func (state *State[T]) Commit() (item T, ok bool) {
	item, ok = state.Current()
	if !ok {
		return item, false
	}
	state.Clear()
	return item, true
}

// Items returns a copy of the items in order.
func (state *State[T]) Items() []T {
	return append([]T(nil), state.items...)
}

// Len returns the number of items.
func (state *State[T]) Len() int {
	return len(state.items)
}

func (state *State[T]) setHighlighted(index int) {
	if index == state.highlighted {
		return
	}
	state.highlighted = index
	if state.scroller == nil {
		return
	}
	state.scroller.SetHighlight(index)
	if index != None {
		state.scroller.ScrollIntoView(index)
	}
}
