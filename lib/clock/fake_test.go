// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfterFuncFiresAtDeadline(t *testing.T) {
	clock := Fake(epoch)
	fired := 0
	clock.AfterFunc(200*time.Millisecond, func() { fired++ })

	clock.Advance(199 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("callback fired %d times before deadline", fired)
	}
	clock.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("callback fired %d times at deadline, want 1", fired)
	}
	clock.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("callback fired %d times after deadline, want 1", fired)
	}
}

func TestFakeClockAfterFuncStop(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop() on pending timer = false, want true")
	}
	if timer.Stop() {
		t.Fatal("second Stop() = true, want false")
	}
	clock.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if pending := clock.PendingCount(); pending != 0 {
		t.Fatalf("PendingCount() = %d, want 0", pending)
	}
}

func TestFakeClockAfterFuncStopAfterFire(t *testing.T) {
	clock := Fake(epoch)
	timer := clock.AfterFunc(time.Second, func() {})
	clock.Advance(time.Second)
	if timer.Stop() {
		t.Fatal("Stop() after fire = true, want false")
	}
}

func TestFakeClockAfterFuncZeroRunsImmediately(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	timer := clock.AfterFunc(0, func() { fired = true })
	if !fired {
		t.Fatal("AfterFunc(0) did not run the callback")
	}
	if timer.Stop() {
		t.Fatal("Stop() on an immediate timer = true, want false")
	}
}

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	clock := Fake(epoch)
	var order []string
	clock.AfterFunc(3*time.Second, func() { order = append(order, "third") })
	clock.AfterFunc(1*time.Second, func() { order = append(order, "first") })
	clock.AfterFunc(2*time.Second, func() { order = append(order, "second") })
	clock.AfterFunc(2*time.Second, func() { order = append(order, "second-tie") })

	clock.Advance(5 * time.Second)

	want := []string{"first", "second", "second-tie", "third"}
	if len(order) != len(want) {
		t.Fatalf("fired %v, want %v", order, want)
	}
	for index := range want {
		if order[index] != want[index] {
			t.Fatalf("fired %v, want %v", order, want)
		}
	}
}

func TestFakeClockCallbackCanSchedule(t *testing.T) {
	clock := Fake(epoch)
	fired := 0
	clock.AfterFunc(time.Second, func() {
		fired++
		clock.AfterFunc(time.Second, func() { fired++ })
	})

	clock.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d after first advance, want 1", fired)
	}
	if pending := clock.PendingCount(); pending != 1 {
		t.Fatalf("PendingCount() = %d, want 1", pending)
	}
	clock.Advance(time.Second)
	if fired != 2 {
		t.Fatalf("fired = %d after second advance, want 2", fired)
	}
}

func TestRealClockAfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("real AfterFunc did not fire")
	}
}

func TestFakeClockNowTracksFiringDeadline(t *testing.T) {
	clock := Fake(epoch)
	var seen []time.Duration
	clock.AfterFunc(time.Second, func() { seen = append(seen, clock.Now().Sub(epoch)) })
	clock.AfterFunc(3*time.Second, func() { seen = append(seen, clock.Now().Sub(epoch)) })

	clock.Advance(10 * time.Second)

	if len(seen) != 2 || seen[0] != time.Second || seen[1] != 3*time.Second {
		t.Errorf("Now() inside callbacks = %v, want [1s 3s]", seen)
	}
	if got := clock.Now().Sub(epoch); got != 10*time.Second {
		t.Errorf("Now() after Advance = %v, want 10s", got)
	}
}

func TestFakeClockNextDeadlineAndSet(t *testing.T) {
	clock := Fake(epoch)
	if _, ok := clock.NextDeadline(); ok {
		t.Fatal("NextDeadline() reported a deadline with nothing pending")
	}
	fired := false
	clock.AfterFunc(200*time.Millisecond, func() { fired = true })

	deadline, ok := clock.NextDeadline()
	if !ok || !deadline.Equal(epoch.Add(200*time.Millisecond)) {
		t.Fatalf("NextDeadline() = %v, %v", deadline, ok)
	}
	clock.Set(deadline)
	if !fired {
		t.Error("Set to the deadline did not fire the callback")
	}
}

func TestFakeClockStopMiddleTimer(t *testing.T) {
	clock := Fake(epoch)
	var order []int
	clock.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	middle := clock.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	clock.AfterFunc(3*time.Second, func() { order = append(order, 3) })

	middle.Stop()
	clock.Advance(5 * time.Second)

	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("fired %v, want [1 3]", order)
	}
}
