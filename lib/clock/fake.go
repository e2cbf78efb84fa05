// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"container/heap"
	"sync"
	"time"
)

// FakeClock is a Clock that moves only when told to. Callbacks run
// synchronously on the goroutine calling Advance or Set, earliest
// deadline first and in scheduling order on ties. Callbacks may
// schedule or stop timers but must not move the clock.
type FakeClock struct {
	mutex    sync.Mutex
	now      time.Time
	pending  timerQueue
	sequence uint64
}

// Fake returns a FakeClock reading initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{now: initial}
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

// AfterFunc schedules f for d after the current fake time.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sequence++
	entry := &fakeTimer{deadline: c.now.Add(d), sequence: c.sequence, callback: f}
	heap.Push(&c.pending, entry)

	return &Timer{stop: func() bool {
		c.mutex.Lock()
		defer c.mutex.Unlock()
		if entry.index < 0 {
			return false
		}
		heap.Remove(&c.pending, entry.index)
		return true
	}}
}

// Advance moves the clock forward by d, running every callback that
// comes due, including ones scheduled by earlier callbacks.
func (c *FakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	target := c.now.Add(d)
	c.mutex.Unlock()
	c.Set(target)
}

// Set moves the clock to target, running callbacks as Advance does.
// Setting an earlier time only changes Now.
func (c *FakeClock) Set(target time.Time) {
	for {
		c.mutex.Lock()
		if len(c.pending) == 0 || c.pending[0].deadline.After(target) {
			c.now = target
			c.mutex.Unlock()
			return
		}
		due := heap.Pop(&c.pending).(*fakeTimer)
		if due.deadline.After(c.now) {
			c.now = due.deadline
		}
		c.mutex.Unlock()

		due.callback()
	}
}

// NextDeadline returns the earliest pending deadline.
func (c *FakeClock) NextDeadline() (time.Time, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if len(c.pending) == 0 {
		return time.Time{}, false
	}
	return c.pending[0].deadline, true
}

// PendingCount returns the number of timers neither stopped nor fired.
func (c *FakeClock) PendingCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.pending)
}

type fakeTimer struct {
	deadline time.Time
	sequence uint64
	callback func()

	// index is the position in the queue, -1 once removed.
	index int
}

// timerQueue is a min-heap on (deadline, sequence).
type timerQueue []*fakeTimer

func (queue timerQueue) Len() int { return len(queue) }

func (queue timerQueue) Less(i, j int) bool {
	if !queue[i].deadline.Equal(queue[j].deadline) {
		return queue[i].deadline.Before(queue[j].deadline)
	}
	return queue[i].sequence < queue[j].sequence
}

func (queue timerQueue) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].index = i
	queue[j].index = j
}

func (queue *timerQueue) Push(value any) {
	entry := value.(*fakeTimer)
	entry.index = len(*queue)
	*queue = append(*queue, entry)
}

func (queue *timerQueue) Pop() any {
	old := *queue
	last := old[len(old)-1]
	old[len(old)-1] = nil
	last.index = -1
	*queue = old[:len(old)-1]
	return last
}
