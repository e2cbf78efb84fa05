// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec fixes the CBOR encoding used on the catalog socket.
//
// Both the catalog server and the socket command source go through
// this package so they agree byte for byte. Encoding is Core
// Deterministic (RFC 8949 section 4.2). Decoding ignores unknown
// fields, returns map[string]any for untyped maps, and bounds nesting
// and collection sizes.
//
// Command descriptors carry only json tags; fxamacker/cbor falls back
// to them, so one tag names a field in command files, at the HTTP
// endpoint, and on the socket. Socket envelopes carry cbor tags.
package codec
