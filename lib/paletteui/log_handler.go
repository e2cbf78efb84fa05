// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// logFadeMsg clears a log record from the status line if no newer
// record has replaced it.
type logFadeMsg struct {
	sequence int
}

// logFadeDelay is how long a log record stays on the status line.
const logFadeDelay = 5 * time.Second

// LogHandler is a slog.Handler that shows records at or above its level
// on the palette's status line. Records are posted through the Loop, so
// logging from inside Update (as the controller does when a command
// fails) never blocks.
//
// Handlers derived via WithAttrs and WithGroup share the loop and view.
type LogHandler struct {
	level  slog.Level
	loop   *Loop
	view   *View
	attrs  []slog.Attr
	groups []string
}

// NewLogHandler returns a handler that shows records at or above level
// in view.
func NewLogHandler(level slog.Level, loop *Loop, view *View) *LogHandler {
	return &LogHandler{level: level, loop: loop, view: view}
}

// Enabled implements slog.Handler.
func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle implements slog.Handler. The summary is "message (key=value,
// ...)" with handler attributes first.
func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	prefix := strings.Join(handler.groups, ".")
	if prefix != "" {
		prefix += "."
	}
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}

	level := logWarning
	if record.Level >= slog.LevelError {
		level = logError
	}
	view := handler.view
	handler.loop.Post(func() { view.showLog(summary, level) })
	return nil
}

// WithAttrs implements slog.Handler.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = append(append([]slog.Attr(nil), handler.attrs...), attrs...)
	return &derived
}

// WithGroup implements slog.Handler.
func (handler *LogHandler) WithGroup(name string) slog.Handler {
	derived := *handler
	derived.groups = append(append([]string(nil), handler.groups...), name)
	return &derived
}

// showLog replaces the status line's log record.
func (view *View) showLog(summary string, level logLevel) {
	view.logSummary = summary
	view.logLevel = level
	view.logSequence++
	view.logPending = true
}
