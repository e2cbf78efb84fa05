// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides the bounded HTTP body readers and connection
// error classification used by the palette's network sources and
// servers.
//
// Body helpers cap reads at [MaxResponseSize] so a misbehaving command
// endpoint cannot exhaust memory. [DecodeResponse] accepts JSONC
// (comments and trailing commas), since command catalogs are often
// hand-edited files served as-is.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"
)

// MaxResponseSize bounds body reads: 32 MB. Command catalogs are
// orders of magnitude smaller.
const MaxResponseSize int64 = 32 << 20

// maxErrorBody bounds the excerpt ErrorBody returns.
const maxErrorBody = 512

// ReadResponse reads body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads body (up to MaxResponseSize bytes) and decodes
// it as JSONC into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return DecodeJSONC(data, v)
}

// DecodeJSONC strips comments and trailing commas from data and
// JSON-decodes the result into v.
func DecodeJSONC(data []byte, v any) error {
	return json.Unmarshal(jsonc.ToJSON(data), v)
}

// ErrorBody returns the start of an error response body for diagnostic
// messages, trimmed of surrounding whitespace. Read errors are ignored;
// a partial body is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody+1))
	text := strings.TrimSpace(string(data))
	if len(data) > maxErrorBody {
		text = strings.TrimSpace(string(data[:maxErrorBody])) + "..."
	}
	return text
}
