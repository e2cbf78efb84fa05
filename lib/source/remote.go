// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
)

// Fetcher retrieves command descriptors for a query from a backend.
// The backend may return a superset of the matching commands; Remote
// filters the result.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]command.Descriptor, error)
}

// RemoteConfig configures a Remote source.
type RemoteConfig struct {
	// Name identifies the source in logs. Required.
	Name string

	// Fetcher performs the backend request. Required.
	Fetcher Fetcher

	// Matcher filters fetched commands. Required.
	Matcher *match.Matcher

	// Resolver binds invoke function names in fetched descriptors.
	// Defaults to command.Unresolved, whose functions fail with
	// command.ErrNotExecutable.
	Resolver command.Resolver

	// Logger is required.
	Logger *slog.Logger
}

// Remote is a source backed by a network fetch. Only the response to
// the most recently issued search is delivered; earlier in-flight
// requests run to completion and their responses are dropped.
type Remote struct {
	name     string
	fetcher  Fetcher
	matcher  *match.Matcher
	resolver command.Resolver
	logger   *slog.Logger

	mutex sync.Mutex
	// latest is the sequence number of the most recent search.
	latest uint64
}

// NewRemote creates a Remote source. Panics when a required field is
// missing.
func NewRemote(config RemoteConfig) *Remote {
	if config.Name == "" {
		panic("source.Remote: Name is required")
	}
	if config.Fetcher == nil {
		panic("source.Remote: Fetcher is required")
	}
	if config.Matcher == nil {
		panic("source.Remote: Matcher is required")
	}
	if config.Logger == nil {
		panic("source.Remote: Logger is required")
	}
	resolver := config.Resolver
	if resolver == nil {
		resolver = command.Unresolved
	}
	return &Remote{
		name:     config.Name,
		fetcher:  config.Fetcher,
		matcher:  config.Matcher,
		resolver: resolver,
		logger:   config.Logger.With("source", config.Name),
	}
}

// Name implements Source.
func (remote *Remote) Name() string { return remote.name }

// Search implements Source.
func (remote *Remote) Search(ctx context.Context, query string, deliver func([]*command.Command)) {
	remote.mutex.Lock()
	remote.latest++
	sequence := remote.latest
	remote.mutex.Unlock()

	go remote.run(ctx, sequence, query, deliver)
}

func (remote *Remote) run(ctx context.Context, sequence uint64, query string, deliver func([]*command.Command)) {
	descriptors, err := remote.fetcher.Fetch(ctx, query)

	if !remote.isLatest(sequence) {
		remote.logger.Debug("dropping superseded response",
			"query", query,
			"sequence", sequence,
		)
		return
	}

	if err != nil {
		remote.logger.Warn("command source unavailable",
			"error", &UnavailableError{Source: remote.name, Query: query, Err: err},
		)
		deliver([]*command.Command{})
		return
	}

	catalog, buildErr := command.BuildCatalog(descriptors, remote.resolver)
	if buildErr != nil {
		remote.logger.Warn("invalid remote command descriptors",
			"query", query,
			"error", buildErr,
		)
	}

	deliver(remote.matcher.Filter(query, catalog.Commands()))
}

func (remote *Remote) isLatest(sequence uint64) bool {
	remote.mutex.Lock()
	defer remote.mutex.Unlock()
	return sequence == remote.latest
}
