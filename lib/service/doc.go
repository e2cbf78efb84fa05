// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the transport scaffolding shared by the
// palette's catalog server and its remote command sources.
//
//   - [SocketServer]: a CBOR request-response protocol on a Unix
//     socket. One request per connection; the request is a CBOR map
//     with an "action" field, the response is a [Response] envelope.
//   - [Client]: the matching client. Each [Client.Call] dials, sends,
//     reads the envelope, and closes.
//   - [HTTPServer]: listener lifecycle and graceful shutdown around a
//     caller-supplied http.Handler.
//
// Servers follow one lifecycle: Serve(ctx) blocks until the context is
// cancelled, then stops accepting and waits for in-flight requests.
package service
