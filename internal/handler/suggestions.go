// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/talacata-contact/carbon-track/internal/cache"
	"github.com/talacata-contact/carbon-track/internal/model"
)

// Suggestions returns suggestion reference rows, optionally restricted to
// one categorie.
// GET /suggestions[?categorie]
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var cat model.Categorie
	if raw := r.URL.Query().Get("categorie"); raw != "" {
		parsed, err := model.ParseCategorie(raw)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		cat = parsed
	}

	key := cache.KeySuggestions
	if cat != "" {
		key += ":" + string(cat)
	}

	suggestions, err := h.cache.Suggestions.GetOrSet(r.Context(), key, func() (*[]model.Suggestion, error) {
		rows, err := h.queries.ListSuggestions(r.Context(), cat)
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil {
		slog.Error("failed to list suggestions", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "suggestions", *suggestions)
}
