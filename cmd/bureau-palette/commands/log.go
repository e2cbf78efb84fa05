// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// openFileLogHandler returns a debug-level JSON handler writing to a
// freshly truncated file at path, and the function that closes it.
func openFileLogHandler(path string) (slog.Handler, func() error, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}), file.Close, nil
}

// teeHandlers combines handlers so each record reaches every one
// enabled for its level. Nil handlers are skipped; a single handler is
// returned as is.
func teeHandlers(handlers ...slog.Handler) slog.Handler {
	var present tee
	for _, handler := range handlers {
		if handler != nil {
			present = append(present, handler)
		}
	}
	if len(present) == 1 {
		return present[0]
	}
	return present
}

type tee []slog.Handler

func (handlers tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle gives each handler its own clone of record and joins their
// errors.
func (handlers tee) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (handlers tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return handlers.derive(func(handler slog.Handler) slog.Handler { return handler.WithAttrs(attrs) })
}

func (handlers tee) WithGroup(name string) slog.Handler {
	return handlers.derive(func(handler slog.Handler) slog.Handler { return handler.WithGroup(name) })
}

func (handlers tee) derive(apply func(slog.Handler) slog.Handler) tee {
	derived := make(tee, len(handlers))
	for index, handler := range handlers {
		derived[index] = apply(handler)
	}
	return derived
}
