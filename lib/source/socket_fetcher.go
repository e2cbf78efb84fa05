// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/service"
)

// SearchAction is the socket action a catalog server answers with the
// descriptors matching the request's "query" field.
const SearchAction = "search"

// SocketFetcher fetches descriptors from a catalog server's Unix
// socket.
type SocketFetcher struct {
	client *service.Client
}

// NewSocketFetcher returns a fetcher for the socket at socketPath.
func NewSocketFetcher(socketPath string) *SocketFetcher {
	return &SocketFetcher{client: service.NewClient(socketPath)}
}

// Fetch implements Fetcher.
func (fetcher *SocketFetcher) Fetch(ctx context.Context, query string) ([]command.Descriptor, error) {
	var descriptors []command.Descriptor
	if err := fetcher.client.Call(ctx, SearchAction, map[string]any{"query": query}, &descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}
