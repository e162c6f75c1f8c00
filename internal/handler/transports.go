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

// TransportCategories returns all transport mode reference rows.
// GET /transports/categories
func (h *Handler) TransportCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.cache.Transports.GetOrSet(r.Context(), cache.KeyTransports, func() (*[]model.TransportCategorie, error) {
		rows, err := h.queries.ListTransportCategories(r.Context())
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil {
		slog.Error("failed to list transport categories", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "categories", *categories)
}

// TransportCO2Creation returns the construction weight of a vehicle.
// GET /transports/co2/creation?categorie_id
func (h *Handler) TransportCO2Creation(w http.ResponseWriter, r *http.Request) {
	categorieID, ok := queryInt64(r, "categorie_id")
	if !ok {
		writeBadRequest(w, "missing or invalid categorie_id")
		return
	}

	tc, err := h.getTransportCategorie(w, categorieID, r)
	if err != nil {
		return
	}

	writeSuccess(w, "co2", map[string]any{
		"value": tc.FacteurCreation,
		"unit":  "kgCO2e",
	})
}

// TransportCO2Usage returns the weight of a trip. conso_km is optional; when
// present it overrides the categorie's average per-km factor.
// GET /transports/co2/usage?categorie_id&distance_km[&conso_km]
func (h *Handler) TransportCO2Usage(w http.ResponseWriter, r *http.Request) {
	categorieID, ok := queryInt64(r, "categorie_id")
	if !ok {
		writeBadRequest(w, "missing or invalid categorie_id")
		return
	}
	distance, ok := queryFloat(r, "distance_km")
	if !ok {
		writeBadRequest(w, "missing or invalid distance_km")
		return
	}
	conso, _ := queryFloat(r, "conso_km")

	tc, err := h.getTransportCategorie(w, categorieID, r)
	if err != nil {
		return
	}

	writeSuccess(w, "co2", map[string]any{
		"value": estimate.TransportUsageCO2(tc.FacteurUsage, distance, conso),
		"unit":  "kgCO2e",
	})
}

// getTransportCategorie fetches one categorie, writing the error response on
// failure.
func (h *Handler) getTransportCategorie(w http.ResponseWriter, id int64, r *http.Request) (model.TransportCategorie, error) {
	tc, err := h.queries.GetTransportCategorie(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeNotFound(w, estimate.ReferenceNotFoundError{Table: "transport_categories", ID: id}.Error())
		return tc, err
	}
	if err != nil {
		slog.Error("failed to get transport categorie", "categorie_id", id, "error", err)
		writeInternalError(w, err)
		return tc, err
	}
	return tc, nil
}
