// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/talacata-contact/carbon-track/internal/cache"
	"github.com/talacata-contact/carbon-track/internal/estimate"
	"github.com/talacata-contact/carbon-track/internal/model"
)

// Chauffages returns all heating type reference rows.
// GET /logements/chauffages
func (h *Handler) Chauffages(w http.ResponseWriter, r *http.Request) {
	chauffages, err := h.cache.Chauffages.GetOrSet(r.Context(), cache.KeyChauffages, func() (*[]model.Chauffage, error) {
		rows, err := h.queries.ListChauffages(r.Context())
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil {
		slog.Error("failed to list chauffages", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "chauffages", *chauffages)
}

// LogementCO2 computes the construction and usage weights of heating a
// dwelling of the given area with the given heating type.
// GET /logements/co2?chauffage_id&superficie_m2
func (h *Handler) LogementCO2(w http.ResponseWriter, r *http.Request) {
	chauffageID, ok := queryInt64(r, "chauffage_id")
	if !ok {
		writeBadRequest(w, "missing or invalid chauffage_id")
		return
	}
	superficie, ok := queryFloat(r, "superficie_m2")
	if !ok {
		writeBadRequest(w, "missing or invalid superficie_m2")
		return
	}

	chauffage, err := h.queries.GetChauffage(r.Context(), chauffageID)
	if errors.Is(err, sql.ErrNoRows) {
		writeNotFound(w, estimate.ReferenceNotFoundError{Table: "chauffages", ID: chauffageID}.Error())
		return
	}
	if err != nil {
		slog.Error("failed to get chauffage", "chauffage_id", chauffageID, "error", err)
		writeInternalError(w, err)
		return
	}

	construction, usage := estimate.HeatingCO2(chauffage.FacteurConstruction, chauffage.FacteurUsage, superficie)
	writeSuccess(w, "co2", map[string]any{
		"construction": construction,
		"usage":        usage,
		"unit":         "kgCO2e",
	})
}
