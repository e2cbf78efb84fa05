// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
)

// Catalog is an ordered collection of commands owned by one source.
// Commands are appended during configuration; searches only read.
type Catalog struct {
	commands []*Command
}

// NewCatalog returns a catalog holding commands in the given order.
func NewCatalog(commands ...*Command) *Catalog {
	catalog := &Catalog{}
	for _, command := range commands {
		catalog.Append(command)
	}
	return catalog
}

// Append adds a command to the end of the catalog. Nil commands are
// ignored.
func (catalog *Catalog) Append(command *Command) {
	if command == nil {
		return
	}
	catalog.commands = append(catalog.commands, command)
}

// Commands returns the catalog's commands in order. The returned slice
// is a copy; the commands are shared.
func (catalog *Catalog) Commands() []*Command {
	return append([]*Command(nil), catalog.commands...)
}

// Len returns the number of commands.
func (catalog *Catalog) Len() int {
	return len(catalog.commands)
}

// BuildCatalog builds every descriptor and returns the catalog of the
// ones that succeeded. The returned error joins every
// *ConfigurationError and *MatchCompileError encountered; commands with
// only a MatchCompileError are still included. Use [FatalErrors] to
// separate the two.
func BuildCatalog(descriptors []Descriptor, resolver Resolver) (*Catalog, error) {
	catalog := &Catalog{}
	var errs []error
	for _, descriptor := range descriptors {
		command, err := descriptor.Build(resolver)
		if err != nil {
			errs = append(errs, err)
		}
		catalog.Append(command)
	}
	return catalog, errors.Join(errs...)
}

// FatalErrors returns the configuration errors contained in err (as
// produced by BuildCatalog), dropping non-fatal match compile errors.
// Returns nil if nothing fatal remains.
func FatalErrors(err error) error {
	if err == nil {
		return nil
	}
	var all []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		all = joined.Unwrap()
	} else {
		all = []error{err}
	}
	var fatal []error
	for _, candidate := range all {
		var compileErr *MatchCompileError
		if errors.As(candidate, &compileErr) {
			continue
		}
		fatal = append(fatal, candidate)
	}
	return errors.Join(fatal...)
}
