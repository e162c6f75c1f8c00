// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package syncengine reconciles the on-device reference tables against the
// remote API. Each table is synced by a full fetch followed by a single
// transactional replace, so a failed fetch never mutates the local cache and
// a re-run after success is a no-op.
package syncengine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talacata-contact/carbon-track/internal/apiclient"
	"github.com/talacata-contact/carbon-track/internal/localcache"
	"github.com/talacata-contact/carbon-track/internal/model"
)

// Syncable table names.
const (
	TableMoyennesFr  = "moyennes_fr"
	TableSuggestions = "suggestions"
)

// Tables lists every syncable table in sync order.
var Tables = []string{TableMoyennesFr, TableSuggestions}

// Result reports the outcome of syncing one table.
type Result struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// API is the subset of the REST client the engine needs.
type API interface {
	MoyennesFr(ctx context.Context) ([]model.MoyenneFr, error)
	Suggestions(ctx context.Context) ([]model.Suggestion, error)
}

// Engine drives the reconciliation.
type Engine struct {
	api    API
	cache  *localcache.Cache
	logger *slog.Logger
}

// New creates an engine syncing cache from api.
func New(api API, cache *localcache.Cache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{api: api, cache: cache, logger: logger}
}

// Sync reconciles one table. A fetch or write failure is reported in the
// Result rather than returned: callers always get a displayable outcome.
func (e *Engine) Sync(ctx context.Context, table string) Result {
	switch table {
	case TableMoyennesFr:
		return e.syncMoyennes(ctx)
	case TableSuggestions:
		return e.syncSuggestions(ctx)
	default:
		return Result{Status: false, Message: fmt.Sprintf("unknown table %q", table)}
	}
}

// SyncAll reconciles every syncable table, keyed by table name. A failure on
// one table does not stop the others.
func (e *Engine) SyncAll(ctx context.Context) map[string]Result {
	results := make(map[string]Result, len(Tables))
	for _, table := range Tables {
		results[table] = e.Sync(ctx, table)
	}
	return results
}

func (e *Engine) syncMoyennes(ctx context.Context) Result {
	rows, err := e.api.MoyennesFr(ctx)
	if err != nil {
		e.logger.Warn("moyennes fetch failed, local cache untouched", "error", err)
		return Result{Status: false, Message: fmt.Sprintf("fetch failed: %v", err)}
	}
	if err := e.cache.ReplaceMoyennes(ctx, rows); err != nil {
		e.logger.Error("moyennes replace failed", "error", err)
		return Result{Status: false, Message: fmt.Sprintf("local write failed: %v", err)}
	}
	e.logger.Info("synced moyennes_fr", "rows", len(rows))
	return Result{Status: true, Message: fmt.Sprintf("synced %d rows", len(rows))}
}

func (e *Engine) syncSuggestions(ctx context.Context) Result {
	rows, err := e.api.Suggestions(ctx)
	if err != nil {
		e.logger.Warn("suggestions fetch failed, local cache untouched", "error", err)
		return Result{Status: false, Message: fmt.Sprintf("fetch failed: %v", err)}
	}
	if err := e.cache.ReplaceSuggestions(ctx, rows); err != nil {
		e.logger.Error("suggestions replace failed", "error", err)
		return Result{Status: false, Message: fmt.Sprintf("local write failed: %v", err)}
	}
	e.logger.Info("synced suggestions", "rows", len(rows))
	return Result{Status: true, Message: fmt.Sprintf("synced %d rows", len(rows))}
}

var _ API = (*apiclient.Client)(nil)
