// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/palette/cmd/bureau-palette/cli"
	"github.com/bureau-foundation/palette/lib/catalogserver"
	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/config"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/service"
)

type serveOptions struct {
	configPath string
	logLevel   string
	file       string
	http       string
	socket     string
	queryParam string
}

func serveCommand() *cli.Command {
	var options serveOptions
	return &cli.Command{
		Name:    "serve",
		Summary: "Serve a command catalog to remote palettes",
		Description: `Serve a command file as a searchable catalog.

Over HTTP, GET /?s=<query> answers with a JSON array of matching
command descriptors, gzip-compressed when the client accepts it and
tagged with an ETag for conditional requests. Over a Unix socket, the
"search" action answers with the same descriptors in CBOR.

Values from the config file's serve section are used for any flag
left unset. Invoke actions are served by name; the palette that runs
them resolves the function locally.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			flagSet.StringVar(&options.configPath, "config", "", "palette config file whose serve section supplies defaults")
			flagSet.StringVar(&options.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
			flagSet.StringVar(&options.file, "file", "", "command file to serve (JSONC or YAML)")
			flagSet.StringVar(&options.http, "http", "", "TCP listen address for HTTP (e.g. :8080)")
			flagSet.StringVar(&options.socket, "socket", "", "Unix socket path for CBOR requests")
			flagSet.StringVar(&options.queryParam, "query-param", "", "HTTP query parameter carrying the query (default \"s\")")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Serve over HTTP and a socket",
				Command:     "bureau-palette serve --file commands.jsonc --http 127.0.0.1:8080 --socket /run/bureau/palette.sock",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			level, err := cli.ParseLevel(options.logLevel)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(level)
			if err := options.applyConfig(); err != nil {
				return err
			}
			catalogService, err := newCatalogService(options, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return catalogService.Serve(ctx)
		},
	}
}

// applyConfig fills unset options from the config file's serve section.
func (options *serveOptions) applyConfig() error {
	if options.configPath == "" {
		return nil
	}
	loaded, err := loadConfig(options.configPath)
	if err != nil {
		return err
	}
	fill := func(target *string, value string) {
		if *target == "" {
			*target = value
		}
	}
	fill(&options.file, loaded.Serve.File)
	fill(&options.http, loaded.Serve.HTTP)
	fill(&options.socket, loaded.Serve.Socket)
	fill(&options.queryParam, loaded.Serve.QueryParam)
	return nil
}

// catalogService runs the HTTP and socket front ends of one catalog
// server.
type catalogService struct {
	server *catalogserver.Server
	http   *service.HTTPServer
	socket *service.SocketServer
	logger *slog.Logger
}

func newCatalogService(options serveOptions, logger *slog.Logger) (*catalogService, error) {
	if options.file == "" {
		return nil, cli.Validation("no command file to serve").
			WithHint("Pass --file, or --config with a serve.file entry.")
	}
	if options.http == "" && options.socket == "" {
		return nil, cli.Validation("nothing to listen on").
			WithHint("Pass --http, --socket, or both.")
	}

	catalog, err := config.LoadCatalog(options.file, command.Unresolved, logger)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}
	logger.Info("catalog loaded", "file", options.file, "commands", catalog.Len())

	server := catalogserver.New(catalogserver.Config{
		Catalog:    catalog,
		Matcher:    match.New(match.DefaultCacheSize),
		QueryParam: options.queryParam,
		Logger:     logger,
	})

	result := &catalogService{server: server, logger: logger}
	if options.http != "" {
		result.http = service.NewHTTPServer(service.HTTPServerConfig{
			Address: options.http,
			Handler: server.Handler(),
			Logger:  logger,
		})
	}
	if options.socket != "" {
		result.socket = service.NewSocketServer(options.socket, logger)
		server.Register(result.socket)
	}
	return result, nil
}

// Serve runs every configured front end until ctx is cancelled or one
// of them fails, in which case the others are stopped too.
func (s *catalogService) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var runners []func(context.Context) error
	if s.http != nil {
		runners = append(runners, s.http.Serve)
	}
	if s.socket != nil {
		runners = append(runners, s.socket.Serve)
	}

	results := make(chan error, len(runners))
	for _, serve := range runners {
		go func() {
			err := serve(ctx)
			if err != nil {
				cancel()
			}
			results <- err
		}()
	}

	var errs []error
	for range runners {
		if err := <-results; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return cli.Transient("%w", errors.Join(errs...))
	}
	s.logger.Info("catalog server stopped")
	return nil
}
