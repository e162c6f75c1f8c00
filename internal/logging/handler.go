// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that persists WARN and
// ERROR records to the log_events table for auditing.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/talacata-contact/carbon-track/internal/store"
)

// LogEventHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level logs to the database.
type LogEventHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to persist (default: WARN)
}

// NewLogEventHandler creates a handler persisting records at WARN and above.
func NewLogEventHandler(inner slog.Handler, db *sql.DB) *LogEventHandler {
	return &LogEventHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// NewLogEventHandlerWithLevel creates a handler with a custom minimum level.
func NewLogEventHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *LogEventHandler {
	return &LogEventHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *LogEventHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *LogEventHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *LogEventHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogEventHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *LogEventHandler) WithGroup(name string) slog.Handler {
	return &LogEventHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

func (h *LogEventHandler) persist(r slog.Record) {
	attrs := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	metadata, _ := json.Marshal(attrs)

	level := "warning"
	if r.Level >= slog.LevelError {
		level = "error"
	}

	// Background context so the record survives request cancellation.
	_ = h.queries.CreateLogEvent(context.Background(), store.CreateLogEventParams{
		Level:     level,
		Message:   r.Message,
		Metadata:  string(metadata),
		CreatedAt: r.Time,
	})
}
