// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// drainMsg tells the model to run the loop's queued callbacks.
type drainMsg struct{}

// Loop is a palette.EventLoop that runs posted callbacks inside the
// bubbletea Update cycle.
//
// Post never blocks: callbacks are queued and a single drainMsg is sent
// to the program from a separate goroutine. tea.Program.Send blocks
// until the program's goroutine receives, so sending directly would
// deadlock when the controller posts from within Update.
//
// Callbacks posted before SetProgram wait in the queue and are signalled
// once the program is set. Tests may call Drain directly without a
// program.
type Loop struct {
	mutex     sync.Mutex
	pending   []func()
	program   *tea.Program
	signalled bool
}

// NewLoop returns an empty loop with no program attached.
func NewLoop() *Loop {
	return &Loop{}
}

// SetProgram attaches the program that receives drain signals.
func (loop *Loop) SetProgram(program *tea.Program) {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()
	loop.program = program
	loop.signalLocked()
}

// Post queues callback to run on the program's goroutine.
func (loop *Loop) Post(callback func()) {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()
	loop.pending = append(loop.pending, callback)
	loop.signalLocked()
}

func (loop *Loop) signalLocked() {
	if loop.signalled || loop.program == nil || len(loop.pending) == 0 {
		return
	}
	loop.signalled = true
	program := loop.program
	go program.Send(drainMsg{})
}

// Len returns the number of queued callbacks.
func (loop *Loop) Len() int {
	loop.mutex.Lock()
	defer loop.mutex.Unlock()
	return len(loop.pending)
}

// Drain runs queued callbacks in post order, including any posted while
// draining, and returns the number run. Must be called from the
// program's goroutine.
func (loop *Loop) Drain() int {
	count := 0
	for {
		loop.mutex.Lock()
		if len(loop.pending) == 0 {
			loop.signalled = false
			loop.mutex.Unlock()
			return count
		}
		callback := loop.pending[0]
		loop.pending = loop.pending[1:]
		loop.mutex.Unlock()

		callback()
		count++
	}
}
