// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the REST API handlers for the Carbon Track
// backend.
package handler

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/talacata-contact/carbon-track/internal/cache"
	"github.com/talacata-contact/carbon-track/internal/foodapi"
	"github.com/talacata-contact/carbon-track/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db      *sql.DB
	queries *store.Queries
	cache   *cache.Manager
	food    *foodapi.Client
}

// New creates the API handler.
func New(db *sql.DB, cacheManager *cache.Manager, food *foodapi.Client) *Handler {
	return &Handler{
		db:      db,
		queries: store.New(db),
		cache:   cacheManager,
		food:    food,
	}
}

// queryInt64 parses a required integer query parameter.
func queryInt64(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// queryFloat parses a required float query parameter.
func queryFloat(r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
