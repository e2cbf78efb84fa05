// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
)

// Local searches an in-memory catalog.
type Local struct {
	name    string
	catalog *command.Catalog
	matcher *match.Matcher
}

// NewLocal returns a source over catalog. The catalog must not be
// appended to once searches begin.
func NewLocal(name string, catalog *command.Catalog, matcher *match.Matcher) *Local {
	return &Local{name: name, catalog: catalog, matcher: matcher}
}

// Name implements Source.
func (local *Local) Name() string { return local.name }

// Catalog returns the catalog the source searches.
func (local *Local) Catalog() *command.Catalog { return local.catalog }

// Search implements Source. Filtering runs on its own goroutine so the
// caller sees the same asynchronous contract as a remote source.
func (local *Local) Search(ctx context.Context, query string, deliver func([]*command.Command)) {
	go func() {
		deliver(local.matcher.Filter(query, local.catalog.Commands()))
	}()
}
