// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/netutil"
	"github.com/bureau-foundation/palette/lib/source"
)

// LoadCommandFile reads a descriptor list. Files ending in .yaml or
// .yml are YAML; everything else is JSON with comments and trailing
// commas allowed.
func LoadCommandFile(path string) ([]command.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading command file: %w", err)
	}

	var descriptors []command.Descriptor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&descriptors); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := netutil.DecodeJSONC(data, &descriptors); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return descriptors, nil
}

// LoadCatalog reads a command file and builds it. Descriptors with
// configuration errors are skipped and logged at warn; descriptors whose
// custom pattern fails to compile are kept (they still match by name
// and alias) and logged at debug.
func LoadCatalog(path string, resolver command.Resolver, logger *slog.Logger) (*command.Catalog, error) {
	descriptors, err := LoadCommandFile(path)
	if err != nil {
		return nil, err
	}
	return buildCatalog(path, descriptors, resolver, logger), nil
}

func buildCatalog(origin string, descriptors []command.Descriptor, resolver command.Resolver, logger *slog.Logger) *command.Catalog {
	catalog, err := command.BuildCatalog(descriptors, resolver)
	if err == nil {
		return catalog
	}
	if fatal := command.FatalErrors(err); fatal != nil {
		logger.Warn("skipping invalid commands", "origin", origin, "error", fatal)
	}
	var compileErr *command.MatchCompileError
	if errors.As(err, &compileErr) {
		logger.Debug("custom pattern did not compile", "origin", origin, "error", err)
	}
	return catalog
}

// BuildSources constructs one source per configured entry, in order.
// Call Validate first; BuildSources reports the first construction
// failure it meets.
func (c *Config) BuildSources(matcher *match.Matcher, resolver command.Resolver, logger *slog.Logger) ([]source.Source, error) {
	sources := make([]source.Source, 0, len(c.Sources))
	for index, entry := range c.Sources {
		name := c.SourceName(index)
		built, err := entry.build(name, matcher, resolver, logger.With("source", name))
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
		sources = append(sources, built)
	}
	return sources, nil
}

func (entry SourceConfig) build(name string, matcher *match.Matcher, resolver command.Resolver, logger *slog.Logger) (source.Source, error) {
	switch entry.Kind {
	case KindLocal:
		descriptors := append([]command.Descriptor(nil), entry.Commands...)
		if entry.File != "" {
			fromFile, err := LoadCommandFile(entry.File)
			if err != nil {
				return nil, err
			}
			descriptors = append(descriptors, fromFile...)
		}
		catalog := buildCatalog(name, descriptors, resolver, logger)
		return source.NewLocal(name, catalog, matcher), nil

	case KindRemote:
		fetcherConfig := source.HTTPFetcherConfig{
			Endpoint:   entry.Endpoint,
			QueryParam: entry.QueryParam,
		}
		if entry.Timeout > 0 {
			fetcherConfig.Client = &http.Client{Timeout: time.Duration(entry.Timeout)}
		}
		fetcher, err := source.NewHTTPFetcher(fetcherConfig)
		if err != nil {
			return nil, err
		}
		return source.NewRemote(source.RemoteConfig{
			Name:     name,
			Fetcher:  fetcher,
			Matcher:  matcher,
			Resolver: resolver,
			Logger:   logger,
		}), nil

	case KindSocket:
		return source.NewRemote(source.RemoteConfig{
			Name:     name,
			Fetcher:  source.NewSocketFetcher(entry.Socket),
			Matcher:  matcher,
			Resolver: resolver,
			Logger:   logger,
		}), nil

	default:
		return nil, fmt.Errorf("unknown kind %q", entry.Kind)
	}
}
