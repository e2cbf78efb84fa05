// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"sync"
	"time"
)

// Queue collects posted callbacks and runs them when drained. It
// stands in for a UI event loop so tests decide exactly when
// asynchronous deliveries are applied.
type Queue struct {
	mutex   sync.Mutex
	pending []func()
	signal  chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Post appends callback. Safe from any goroutine.
func (queue *Queue) Post(callback func()) {
	queue.mutex.Lock()
	queue.pending = append(queue.pending, callback)
	queue.mutex.Unlock()
	select {
	case queue.signal <- struct{}{}:
	default:
	}
}

// Len returns the number of callbacks waiting to run.
func (queue *Queue) Len() int {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	return len(queue.pending)
}

// Drain runs queued callbacks in post order, including any posted by
// the callbacks themselves, until the queue is empty. Returns the
// number run.
func (queue *Queue) Drain() int {
	count := 0
	for {
		queue.mutex.Lock()
		if len(queue.pending) == 0 {
			queue.mutex.Unlock()
			return count
		}
		callback := queue.pending[0]
		queue.pending = queue.pending[1:]
		queue.mutex.Unlock()

		callback()
		count++
	}
}

// WaitFor blocks until at least n callbacks are pending, or fails the
// test after timeout. Use it to wait for deliveries from goroutines
// before draining.
func (queue *Queue) WaitFor(t TB, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.NewTimer(timeout) //nolint:realclock test hang prevention
	defer deadline.Stop()
	for queue.Len() < n {
		select {
		case <-queue.signal:
		case <-deadline.C:
			t.Fatalf("timed out after %v waiting for %d posted callbacks (have %d)", timeout, n, queue.Len())
		}
	}
}
