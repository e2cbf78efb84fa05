// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [SocketDir] creates a short temporary directory for Unix sockets,
// whose paths are limited to 108 bytes; t.TempDir() paths can exceed
// that under deep build sandboxes.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout pattern so tests never block forever on a
// channel. They are the only wall-clock timeouts in the test suite;
// everything else runs on lib/clock's fake clock.
//
// [Queue] is a manually drained event loop: callbacks posted to it run
// only when the test calls Drain.
//
// All helpers call t.Fatalf on failure.
package testutil
