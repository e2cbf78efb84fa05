// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/palette"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "BUREAU_PALETTE_CONFIG"

// Source kinds.
const (
	KindLocal  = "local"
	KindRemote = "remote"
	KindSocket = "socket"
)

// Config is the palette configuration.
type Config struct {
	// Chord opens the palette.
	Chord ChordConfig `yaml:"chord"`

	// Debounce is the quiet period before a search. Accepts a Go
	// duration string ("200ms") or an integer number of milliseconds.
	Debounce Duration `yaml:"debounce"`

	// Label is shown before the input field.
	Label string `yaml:"label"`

	// Sources are searched in order.
	Sources []SourceConfig `yaml:"sources"`

	// PatternCacheSize bounds the compiled query pattern cache.
	PatternCacheSize int `yaml:"pattern_cache_size"`

	// Opener is the command line that opens navigate URLs.
	Opener string `yaml:"opener"`

	// Serve configures the serve subcommand.
	Serve ServeConfig `yaml:"serve"`
}

// ChordConfig is the key chord that opens the palette.
type ChordConfig struct {
	Key       string   `yaml:"key"`
	Modifiers []string `yaml:"modifiers"`
}

// SourceConfig configures one command source. Kind selects which of
// the remaining fields apply:
//
//   - local: File (JSONC or YAML descriptor list) and/or inline
//     Commands.
//   - remote: Endpoint and optional QueryParam.
//   - socket: Socket, the path of a catalog server's Unix socket.
type SourceConfig struct {
	Name       string               `yaml:"name"`
	Kind       string               `yaml:"kind"`
	File       string               `yaml:"file"`
	Commands   []command.Descriptor `yaml:"commands"`
	Endpoint   string               `yaml:"endpoint"`
	QueryParam string               `yaml:"query_param"`
	Socket     string               `yaml:"socket"`
	Timeout    Duration             `yaml:"timeout"`
}

// ServeConfig configures the catalog server.
type ServeConfig struct {
	// File is the catalog to serve.
	File string `yaml:"file"`

	// HTTP is the TCP listen address. Empty disables HTTP.
	HTTP string `yaml:"http"`

	// Socket is the Unix socket path. Empty disables the socket.
	Socket string `yaml:"socket"`

	// QueryParam defaults to "s".
	QueryParam string `yaml:"query_param"`
}

// Duration is a time.Duration read from YAML as either a duration
// string or integer milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (duration *Duration) UnmarshalYAML(node *yaml.Node) error {
	var milliseconds int64
	if err := node.Decode(&milliseconds); err == nil {
		*duration = Duration(time.Duration(milliseconds) * time.Millisecond)
		return nil
	}
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("line %d: duration must be a string or integer milliseconds", node.Line)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*duration = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (duration Duration) MarshalYAML() (any, error) {
	return time.Duration(duration).String(), nil
}

// Default returns the configuration every file is overlaid on.
func Default() *Config {
	return &Config{
		Chord: ChordConfig{
			Key:       palette.DefaultChord.Key,
			Modifiers: []string{"ctrl"},
		},
		Debounce:         Duration(palette.DefaultDebounce),
		Label:            palette.DefaultLabel,
		PatternCacheSize: 256,
		Opener:           "xdg-open",
	}
}

// Load loads the file named by BUREAU_PALETTE_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your palette.yaml, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over Default. Unknown keys are
// errors. The result is expanded but not validated.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	config.expandVariables()
	config.resolvePaths(filepath.Dir(path))
	return config, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} in the fields that
// name files, sockets, endpoints, and programs.
func (c *Config) expandVariables() {
	vars := map[string]string{"HOME": os.Getenv("HOME")}

	c.Opener = expandVars(c.Opener, vars)
	c.Serve.File = expandVars(c.Serve.File, vars)
	c.Serve.Socket = expandVars(c.Serve.Socket, vars)
	c.Serve.HTTP = expandVars(c.Serve.HTTP, vars)
	for index := range c.Sources {
		source := &c.Sources[index]
		source.File = expandVars(source.File, vars)
		source.Endpoint = expandVars(source.Endpoint, vars)
		source.Socket = expandVars(source.Socket, vars)
	}
}

// resolvePaths makes relative file and socket paths relative to the
// config file's directory.
func (c *Config) resolvePaths(directory string) {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(directory, path)
	}
	c.Serve.File = resolve(c.Serve.File)
	c.Serve.Socket = resolve(c.Serve.Socket)
	for index := range c.Sources {
		c.Sources[index].File = resolve(c.Sources[index].File)
		c.Sources[index].Socket = resolve(c.Sources[index].Socket)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}, preferring vars over
// the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(reference string) string {
		parts := varPattern.FindStringSubmatch(reference)
		name, defaultValue := parts[1], parts[2]
		if value := vars[name]; value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// PaletteChord returns the configured chord.
func (c *Config) PaletteChord() (palette.Chord, error) {
	return palette.NewChord(c.Chord.Key, c.Chord.Modifiers)
}

// SourceName returns the source's configured name, or a name derived
// from its kind and position.
func (c *Config) SourceName(index int) string {
	if name := c.Sources[index].Name; name != "" {
		return name
	}
	return fmt.Sprintf("%s-%d", c.Sources[index].Kind, index+1)
}

// Validate checks the configuration and returns every problem joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.PaletteChord(); err != nil {
		errs = append(errs, fmt.Errorf("chord: %w", err))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must not be negative"))
	}
	if c.PatternCacheSize < 0 {
		errs = append(errs, fmt.Errorf("pattern_cache_size must not be negative"))
	}
	if len(c.Sources) == 0 {
		errs = append(errs, fmt.Errorf("sources: at least one source is required"))
	}

	names := make(map[string]int)
	for index, source := range c.Sources {
		name := c.SourceName(index)
		if previous, exists := names[name]; exists {
			errs = append(errs, fmt.Errorf("sources[%d]: name %q already used by sources[%d]", index, name, previous))
		}
		names[name] = index
		if err := source.validate(); err != nil {
			errs = append(errs, fmt.Errorf("sources[%d] (%s): %w", index, name, err))
		}
	}

	return errors.Join(errs...)
}

func (source SourceConfig) validate() error {
	if source.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch source.Kind {
	case KindLocal:
		if source.File == "" && len(source.Commands) == 0 {
			return fmt.Errorf("local source needs a file or inline commands")
		}
	case KindRemote:
		if source.Endpoint == "" {
			return fmt.Errorf("remote source needs an endpoint")
		}
		endpoint, err := url.Parse(source.Endpoint)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
			return fmt.Errorf("endpoint %q: scheme must be http or https", source.Endpoint)
		}
	case KindSocket:
		if source.Socket == "" {
			return fmt.Errorf("socket source needs a socket path")
		}
	case "":
		return fmt.Errorf("kind is required (local, remote, or socket)")
	default:
		return fmt.Errorf("unknown kind %q (expected local, remote, or socket)", source.Kind)
	}
	return nil
}
