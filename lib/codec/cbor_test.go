// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

// searchEnvelope mirrors the socket request shape (cbor tags).
type searchEnvelope struct {
	Action string `cbor:"action"`
	Query  string `cbor:"query,omitempty"`
}

// descriptorLike uses json tags, as command descriptors do.
type descriptorLike struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

func TestMarshalDeterministic(t *testing.T) {
	request := map[string]any{"query": "go", "action": "search"}

	first, err := Marshal(request)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(map[string]any{"action": "search", "query": "go"})
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestStreamCarriesSeveralValues(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, query := range []string{"go", "log", ""} {
		if err := encoder.Encode(searchEnvelope{Action: "search", Query: query}); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for _, want := range []string{"go", "log", ""} {
		var got searchEnvelope
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Action != "search" || got.Query != want {
			t.Errorf("decoded %+v, want action=search query=%q", got, want)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	data, err := Marshal(descriptorLike{Name: "Google Search", Aliases: []string{"Search"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	if generic["name"] != "Google Search" {
		t.Errorf("map key name = %v, want %q", generic["name"], "Google Search")
	}
	if _, present := generic["Name"]; present {
		t.Error("struct field name leaked into CBOR keys; json tag fallback not applied")
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested type = %T, want map[string]any", outer["outer"])
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var target searchEnvelope
	if err := Unmarshal([]byte{0xff, 0xfe}, &target); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

func TestUnmarshalRejectsDeepNesting(t *testing.T) {
	// Twenty one-element arrays wrapped around a zero.
	data := append(bytes.Repeat([]byte{0x81}, 20), 0x00)
	var decoded any
	if err := Unmarshal(data, &decoded); err == nil {
		t.Error("expected an error for nesting beyond the decoder limit")
	}

	shallow := append(bytes.Repeat([]byte{0x81}, 3), 0x00)
	if err := Unmarshal(shallow, &decoded); err != nil {
		t.Errorf("shallow nesting rejected: %v", err)
	}
}
