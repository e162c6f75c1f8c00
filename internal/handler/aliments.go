// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/talacata-contact/carbon-track/internal/estimate"
	"github.com/talacata-contact/carbon-track/internal/foodapi"
)

// AlimentsSearchText searches food products by free text.
// GET /aliments/search/text?text
func (h *Handler) AlimentsSearchText(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeBadRequest(w, "missing text")
		return
	}

	products, err := h.food.SearchText(r.Context(), text)
	if errors.Is(err, foodapi.ErrNotFound) {
		writeNotFound(w, "no product matches "+text)
		return
	}
	if err != nil {
		slog.Error("food text search failed", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "aliments", products)
}

// AlimentsSearchBarcode looks one food product up by barcode.
// GET /aliments/search/barcode?barcode
func (h *Handler) AlimentsSearchBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := r.URL.Query().Get("barcode")
	if barcode == "" {
		writeBadRequest(w, "missing barcode")
		return
	}

	product, err := h.food.SearchBarcode(r.Context(), barcode)
	if errors.Is(err, foodapi.ErrNotFound) {
		writeNotFound(w, "no product with barcode "+barcode)
		return
	}
	if err != nil {
		slog.Error("food barcode search failed", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "aliment", product)
}

// AlimentCO2 computes the weight of a consumed quantity of a product.
// GET /aliments/co2?barcode&quantity_value&quantity_unit
func (h *Handler) AlimentCO2(w http.ResponseWriter, r *http.Request) {
	barcode := r.URL.Query().Get("barcode")
	if barcode == "" {
		writeBadRequest(w, "missing barcode")
		return
	}
	quantity, ok := queryFloat(r, "quantity_value")
	if !ok {
		writeBadRequest(w, "missing or invalid quantity_value")
		return
	}
	unit := r.URL.Query().Get("quantity_unit")
	if unit == "" {
		writeBadRequest(w, "missing quantity_unit")
		return
	}

	product, err := h.food.SearchBarcode(r.Context(), barcode)
	if errors.Is(err, foodapi.ErrNotFound) {
		writeNotFound(w, "no product with barcode "+barcode)
		return
	}
	if err != nil {
		slog.Error("food barcode lookup failed", "error", err)
		writeInternalError(w, err)
		return
	}

	value, err := estimate.Weight(product.CO2PerKg, quantity, unit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	writeSuccess(w, "co2", map[string]any{
		"value": value,
		"unit":  "kgCO2e",
	})
}
