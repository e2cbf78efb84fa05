// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalogserver serves a command catalog to remote palettes.
//
// Two transports answer the same question ("which commands match this
// query?") with the same descriptors:
//
//   - HTTP: GET /?s=<query> returns a JSON array. Responses are
//     gzip-compressed when the client accepts it and carry a BLAKE3
//     ETag; a matching If-None-Match yields 304 Not Modified.
//   - Unix socket: the "search" action of the CBOR socket protocol in
//     lib/service, with the query in the "query" field.
//
// The server filters with the same matcher the palette uses, so a
// remote source receives exactly what a local one would have found.
package catalogserver
