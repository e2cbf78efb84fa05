// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/palette/lib/codec"
)

// Descriptor is the serialized form of a command, shared by command
// files (JSONC), the palette config (YAML), the HTTP catalog endpoint
// (JSON), and the catalog socket (CBOR, which reads the json tags).
type Descriptor struct {
	Name             string              `json:"name" yaml:"name"`
	Aliases          []string            `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Pattern          string              `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Icon             string              `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description      string              `json:"description,omitempty" yaml:"description,omitempty"`
	RequiresArgument ArgumentRequirement `json:"requires_argument" yaml:"requires_argument,omitempty"`
	ArgumentDefault  string              `json:"argument_default,omitempty" yaml:"argument_default,omitempty"`
	Action           ActionDescriptor    `json:"action" yaml:"action"`
}

// ActionDescriptor is the serialized form of an [Action]. Fn names a
// function in the process's invoke registry; URL is a navigate
// template.
type ActionDescriptor struct {
	Kind string `json:"kind" yaml:"kind"`
	Fn   string `json:"fn,omitempty" yaml:"fn,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Resolver maps invoke function names to callables.
type Resolver interface {
	Resolve(name string) (InvokeFunc, bool)
}

// Registry is the standard Resolver: a fixed table of named functions.
type Registry map[string]InvokeFunc

// Resolve implements Resolver.
func (registry Registry) Resolve(name string) (InvokeFunc, bool) {
	function, ok := registry[name]
	return function, ok && function != nil
}

// Unresolved is a Resolver that accepts every function name and binds
// it to a function returning ErrNotExecutable. Used by processes that
// serve a catalog to others and never execute invoke actions.
var Unresolved Resolver = unresolved{}

type unresolved struct{}

func (unresolved) Resolve(string) (InvokeFunc, bool) {
	return func(context.Context, string) error { return ErrNotExecutable }, true
}

// Build validates the descriptor and constructs the command. Invoke
// function names are looked up in resolver.
//
// Returns (nil, *ConfigurationError) for malformed descriptors. A
// pattern that does not compile yields the command together with a
// *MatchCompileError; callers should log it and keep the command.
func (descriptor Descriptor) Build(resolver Resolver) (*Command, error) {
	action := Action{
		Kind:         ActionKind(descriptor.Action.Kind),
		FunctionName: descriptor.Action.Fn,
		URLTemplate:  descriptor.Action.URL,
	}
	if action.Kind == ActionInvoke && descriptor.Action.Fn != "" {
		if resolver == nil {
			return nil, &ConfigurationError{Command: descriptor.Name, Field: "action.fn", Reason: "cannot be resolved without a registry"}
		}
		function, ok := resolver.Resolve(descriptor.Action.Fn)
		if !ok {
			return nil, &ConfigurationError{Command: descriptor.Name, Field: "action.fn", Reason: fmt.Sprintf("names unknown function %q", descriptor.Action.Fn)}
		}
		action.Function = function
	}

	spec := Spec{
		Name:            descriptor.Name,
		Aliases:         descriptor.Aliases,
		Icon:            descriptor.Icon,
		Description:     descriptor.Description,
		Argument:        Argument(descriptor.RequiresArgument),
		ArgumentDefault: descriptor.ArgumentDefault,
		Action:          action,
	}

	var compileErr error
	if descriptor.Pattern != "" {
		pattern, err := regexp.Compile(descriptor.Pattern)
		if err != nil {
			compileErr = &MatchCompileError{Command: descriptor.Name, Pattern: descriptor.Pattern, Err: err}
		} else {
			spec.Pattern = pattern
		}
	}

	command, err := New(spec)
	if err != nil {
		return nil, err
	}
	return command, compileErr
}

// DescriptorOf returns the serialized form of command. The inverse of
// Build for everything except the invoke callable, which is carried by
// name.
func DescriptorOf(command *Command) Descriptor {
	descriptor := Descriptor{
		Name:             command.Name,
		Aliases:          command.Aliases,
		Icon:             command.Icon,
		Description:      command.Description,
		RequiresArgument: ArgumentRequirement(command.Argument),
		ArgumentDefault:  command.ArgumentDefault,
		Action: ActionDescriptor{
			Kind: string(command.Action.Kind),
			Fn:   command.Action.FunctionName,
			URL:  command.Action.URLTemplate,
		},
	}
	if command.Pattern != nil {
		descriptor.Pattern = command.Pattern.String()
	}
	return descriptor
}

// ArgumentRequirement is the serialized form of [Argument]. On the wire
// it is either a boolean or a non-empty string; a string means the
// argument is required and doubles as its label.
type ArgumentRequirement struct {
	Required bool
	Label    string
}

func (requirement ArgumentRequirement) wireValue() any {
	if !requirement.Required {
		return false
	}
	if requirement.Label == "" {
		return true
	}
	return requirement.Label
}

func (requirement *ArgumentRequirement) fromWire(raw any) error {
	switch value := raw.(type) {
	case nil:
		*requirement = ArgumentRequirement{}
	case bool:
		*requirement = ArgumentRequirement{Required: value}
	case string:
		*requirement = ArgumentRequirement{Required: value != "", Label: value}
	default:
		return fmt.Errorf("requires_argument must be a boolean or a string, got %T", raw)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (requirement ArgumentRequirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(requirement.wireValue())
}

// UnmarshalJSON implements json.Unmarshaler.
func (requirement *ArgumentRequirement) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return requirement.fromWire(raw)
}

// MarshalCBOR implements cbor.Marshaler.
func (requirement ArgumentRequirement) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(requirement.wireValue())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (requirement *ArgumentRequirement) UnmarshalCBOR(data []byte) error {
	var raw any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return err
	}
	return requirement.fromWire(raw)
}

// MarshalYAML implements yaml.Marshaler.
func (requirement ArgumentRequirement) MarshalYAML() (any, error) {
	return requirement.wireValue(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (requirement *ArgumentRequirement) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return requirement.fromWire(raw)
}
