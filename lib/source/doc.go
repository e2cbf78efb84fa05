// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package source provides the command sources a palette searches.
//
// Every [Source] is asynchronous: Search returns immediately and the
// results arrive later through the deliver callback, possibly on
// another goroutine. Each search that is not superseded delivers
// exactly once, with an empty slice when nothing matches or the
// backend failed. Callers must marshal deliveries onto their own event
// loop before touching shared state.
//
// [Local] filters an in-memory catalog. [Remote] asks a [Fetcher] for
// descriptors and drops any response that a later search has
// superseded. Two fetchers are provided: [HTTPFetcher] (JSON over HTTP
// GET) and [SocketFetcher] (CBOR over a Unix socket, served by
// lib/catalogserver).
package source
