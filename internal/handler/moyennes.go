// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/talacata-contact/carbon-track/internal/cache"
	"github.com/talacata-contact/carbon-track/internal/model"
)

// MoyennesFr returns all national average reference rows.
// GET /moyennesFr
func (h *Handler) MoyennesFr(w http.ResponseWriter, r *http.Request) {
	moyennes, err := h.cache.Moyennes.GetOrSet(r.Context(), cache.KeyMoyennes, func() (*[]model.MoyenneFr, error) {
		rows, err := h.queries.ListMoyennesFr(r.Context())
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil {
		slog.Error("failed to list moyennes", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "moyennes", *moyennes)
}
