// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/palette/lib/command"
)

// Source produces the commands matching a query.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Search starts a search for query. deliver is called at most once
	// with the matching commands in source order; it is not called for
	// a search superseded by a later one. Search never blocks on I/O.
	Search(ctx context.Context, query string, deliver func([]*command.Command))
}

// UnavailableError reports that a source could not produce results for
// a search. The search still completes with an empty delivery.
type UnavailableError struct {
	Source string
	Query  string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable for query %q: %v", e.Source, e.Query, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
