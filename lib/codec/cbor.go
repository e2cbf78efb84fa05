// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Decoder limits. A catalog response is one array of descriptor maps;
// the bounds leave room for tens of thousands of commands while
// rejecting pathological nesting from a misbehaving peer.
const (
	maxNestedLevels  = 16
	maxArrayElements = 65536
	maxMapPairs      = 4096
)

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: building CBOR encoder: " + err.Error())
	}
	return mode
}

func mustDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{
		// requires_argument is decoded into any; its maps must be
		// map[string]any like JSON's.
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
		MaxNestedLevels:  maxNestedLevels,
		MaxArrayElements: maxArrayElements,
		MaxMapPairs:      maxMapPairs,
	}.DecMode()
	if err != nil {
		panic("codec: building CBOR decoder: " + err.Error())
	}
	return mode
}

// RawMessage is an undecoded CBOR value. Socket envelopes carry their
// payload as a RawMessage until the caller knows its type.
type RawMessage = cbor.RawMessage

// Marshal encodes value with Core Deterministic Encoding.
func Marshal(value any) ([]byte, error) {
	return encMode.Marshal(value)
}

// Unmarshal decodes data into target, ignoring unknown fields.
func Unmarshal(data []byte, target any) error {
	return decMode.Unmarshal(data, target)
}

// NewEncoder returns a stream encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a stream decoder reading from r. Each Decode
// consumes exactly one value.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
