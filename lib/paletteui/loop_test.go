// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"slices"
	"testing"
)

func TestLoopDrainRunsInPostOrder(t *testing.T) {
	loop := NewLoop()
	var order []int
	loop.Post(func() { order = append(order, 1) })
	loop.Post(func() {
		order = append(order, 2)
		loop.Post(func() { order = append(order, 4) })
	})
	loop.Post(func() { order = append(order, 3) })

	if loop.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", loop.Len())
	}
	if count := loop.Drain(); count != 4 {
		t.Errorf("Drain() = %d, want 4", count)
	}
	if !slices.Equal(order, []int{1, 2, 3, 4}) {
		t.Errorf("order = %v, want [1 2 3 4]", order)
	}
	if loop.Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", loop.Len())
	}
}

func TestLoopPostNeverRunsSynchronously(t *testing.T) {
	loop := NewLoop()
	ran := false
	loop.Post(func() { ran = true })
	if ran {
		t.Fatal("Post ran the callback synchronously")
	}
	loop.Drain()
	if !ran {
		t.Fatal("Drain did not run the callback")
	}
}
