// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalogserver

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/service"
	"github.com/bureau-foundation/palette/lib/source"
)

// StatusAction reports the catalog size over the socket.
const StatusAction = "status"

// Config configures a Server.
type Config struct {
	// Catalog is served read-only. Required.
	Catalog *command.Catalog

	// Matcher filters the catalog. Defaults to a new matcher.
	Matcher *match.Matcher

	// QueryParam names the HTTP query parameter. Defaults to
	// source.DefaultQueryParam.
	QueryParam string

	// Logger is required.
	Logger *slog.Logger
}

// Server answers catalog searches.
type Server struct {
	catalog    *command.Catalog
	matcher    *match.Matcher
	queryParam string
	logger     *slog.Logger
}

// Status is the response to StatusAction.
type Status struct {
	Commands int `cbor:"commands"`
}

// New returns a Server. Panics when a required field is missing.
func New(config Config) *Server {
	if config.Catalog == nil {
		panic("catalogserver: Catalog is required")
	}
	if config.Logger == nil {
		panic("catalogserver: Logger is required")
	}
	matcher := config.Matcher
	if matcher == nil {
		matcher = match.New(0)
	}
	queryParam := config.QueryParam
	if queryParam == "" {
		queryParam = source.DefaultQueryParam
	}
	return &Server{
		catalog:    config.Catalog,
		matcher:    matcher,
		queryParam: queryParam,
		logger:     config.Logger,
	}
}

// Search returns the descriptors of the commands matching query, in
// catalog order. Never nil.
func (server *Server) Search(query string) []command.Descriptor {
	matches := server.matcher.Filter(query, server.catalog.Commands())
	descriptors := make([]command.Descriptor, len(matches))
	for index, matched := range matches {
		descriptors[index] = command.DescriptorOf(matched)
	}
	return descriptors
}

// Handler returns the HTTP handler, gzip-wrapped.
func (server *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(http.HandlerFunc(server.serveHTTP))
}

func (server *Server) serveHTTP(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		writer.Header().Set("Allow", "GET, HEAD")
		http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := request.URL.Query().Get(server.queryParam)
	body, err := json.Marshal(server.Search(query))
	if err != nil {
		server.logger.Error("encoding search response", "query", query, "error", err)
		http.Error(writer, "internal error", http.StatusInternalServerError)
		return
	}

	etag := ETag(body)
	writer.Header().Set("ETag", etag)
	writer.Header().Set("Cache-Control", "no-cache")
	if request.Header.Get("If-None-Match") == etag {
		writer.WriteHeader(http.StatusNotModified)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	if request.Method == http.MethodHead {
		return
	}
	if _, err := writer.Write(body); err != nil {
		server.logger.Debug("writing search response", "error", err)
	}
}

// ETag returns the strong entity tag for body: a quoted hex prefix of
// its BLAKE3 digest.
func ETag(body []byte) string {
	digest := blake3.Sum256(body)
	return `"` + hex.EncodeToString(digest[:16]) + `"`
}

// Register adds the search and status actions to socket.
func (server *Server) Register(socket *service.SocketServer) {
	socket.Handle(source.SearchAction, service.Typed(server.handleSearch))
	socket.Handle(StatusAction, func(context.Context, []byte) (any, error) {
		return Status{Commands: server.catalog.Len()}, nil
	})
}

type searchRequest struct {
	Query string `cbor:"query"`
}

func (server *Server) handleSearch(ctx context.Context, request searchRequest) (any, error) {
	return server.Search(request.Query), nil
}
