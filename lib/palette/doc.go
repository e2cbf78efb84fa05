// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package palette implements the command palette controller: the
// lifecycle from a key chord opening the palette, through debounced
// searches fanned out to every [source.Source], to executing the
// committed command, optionally after collecting a free-text argument.
//
// The controller is UI-independent. Everything it needs from its host
// arrives through [Config]: a [Renderer] for drawing, an [Executor] for
// running actions, an [EventLoop] that serializes mutation, and a
// [clock.Clock] for the debounce timer. All Controller methods must be
// called on the event loop; timer callbacks and source deliveries only
// Post back onto it, so the controller itself holds no locks.
//
// State machine:
//
//	Closed ──Open──▶ Idle ──debounce fires──▶ Searching ──deliveries──▶ Results
//	                  ▲                                                    │
//	                  └───────Escape─────── AwaitingArgument ◀──Commit─────┘
//
// Escape from any state other than AwaitingArgument closes the palette.
// Executing a command closes it too. Closing invalidates the pending
// debounce timer and the current search generation, so timers and
// deliveries that land afterwards are no-ops.
package palette
