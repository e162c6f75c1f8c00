// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is one user-logged activity occurrence. Params is category-specific
// JSON, decoded with DecodeParams.
type Event struct {
	ID              int64     `json:"id"`
	ActionCategorie Categorie `json:"action_categorie"`
	ReferenceID     int64     `json:"reference_id"`
	Params          string    `json:"params"`
	DateCreation    time.Time `json:"date_creation"`
}

// EventParams is the decoded category-specific payload of an event.
type EventParams interface {
	isEventParams()
}

// TransportParams describes a trip.
type TransportParams struct {
	CategorieID int64   `json:"categorie_id"`
	DistanceKm  float64 `json:"distance_km"`
	ConsoKm     float64 `json:"conso_km"`
}

// LogementParams describes a heated dwelling.
type LogementParams struct {
	ChauffageID   int64   `json:"chauffage_id"`
	SuperficieM2  float64 `json:"superficie_m2"`
	TempChauffage float64 `json:"temp_chauffage"`
}

// AlimentParams describes a consumed food item.
type AlimentParams struct {
	QuantityValue float64  `json:"quantity_value"`
	QuantityUnit  string   `json:"quantity_unit"`
	Tags          []string `json:"tags,omitempty"`
}

func (TransportParams) isEventParams() {}
func (LogementParams) isEventParams()  {}
func (AlimentParams) isEventParams()   {}

// DecodeParams parses an event's raw params payload into the typed form for
// its categorie.
func DecodeParams(cat Categorie, raw string) (EventParams, error) {
	if raw == "" {
		raw = "{}"
	}
	switch cat {
	case CategorieTransport:
		var p TransportParams
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decoding transport params: %w", err)
		}
		return p, nil
	case CategorieLogement:
		var p LogementParams
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decoding logement params: %w", err)
		}
		return p, nil
	case CategorieAliment:
		var p AlimentParams
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decoding aliment params: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown categorie %q", cat)
}

// RepeatUnit is the recurrence unit of a passive action.
type RepeatUnit string

// Recurrence units.
const (
	RepeatJours    RepeatUnit = "jours"
	RepeatSemaines RepeatUnit = "semaines"
	RepeatMois     RepeatUnit = "mois"
	RepeatAnnees   RepeatUnit = "années"
)

// PassiveAction is a recurrence rule that materializes into events on a
// schedule.
type PassiveAction struct {
	ID          int64      `json:"id"`
	ActionID    int64      `json:"action_id"`
	Categorie   Categorie  `json:"categorie"`
	Params      string     `json:"params"`
	RepeatEvery int        `json:"repeat_every"`
	RepeatUnit  RepeatUnit `json:"repeat_unit"`
	DateDebut   time.Time  `json:"date_debut"`
	DateFin     *time.Time `json:"date_fin,omitempty"`
	LastRun     *time.Time `json:"last_run,omitempty"`
}

// NextDue returns the next date this action should materialize an event.
// The first occurrence is DateDebut itself.
func (pa PassiveAction) NextDue() (time.Time, error) {
	last := pa.LastRun
	if last == nil {
		return pa.DateDebut, nil
	}
	switch pa.RepeatUnit {
	case RepeatJours:
		return last.AddDate(0, 0, pa.RepeatEvery), nil
	case RepeatSemaines:
		return last.AddDate(0, 0, 7*pa.RepeatEvery), nil
	case RepeatMois:
		return last.AddDate(0, pa.RepeatEvery, 0), nil
	case RepeatAnnees:
		return last.AddDate(pa.RepeatEvery, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown repeat unit %q", pa.RepeatUnit)
}

// Expired reports whether the action's recurrence window has closed at t.
func (pa PassiveAction) Expired(t time.Time) bool {
	return pa.DateFin != nil && t.After(*pa.DateFin)
}
