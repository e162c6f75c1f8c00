// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// Suggestion is a piece of personalized advice shown to the user when the
// trigger conditions in its contexte match at least one logged event.
// Contexte and Sources are stored as JSON strings in the database and on
// the wire; Contexte is decoded once at the cache boundary.
type Suggestion struct {
	ID           int64     `json:"id"`
	Categorie    Categorie `json:"categorie"`
	Contexte     string    `json:"contexte"`
	Suggestion   string    `json:"suggestion"`
	Explications string    `json:"explications"`
	Sources      []string  `json:"sources"`
}

// Contexte is the decoded trigger predicate of a suggestion. The concrete
// type depends on the suggestion's categorie.
type Contexte interface {
	isContexte()
}

// TransportContexte triggers on transport events. Absent clauses (nil
// pointers, empty list) place no constraint.
type TransportContexte struct {
	CategorieIDs []int64  `json:"categorie_ids,omitempty"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	ConsoKm      *float64 `json:"conso_km,omitempty"`
	Critere      Critere  `json:"critere,omitempty"`
}

// LogementContexte triggers on housing events.
type LogementContexte struct {
	ChauffageID   *int64   `json:"chauffage_id,omitempty"`
	SuperficieM2  *float64 `json:"superficie_m2,omitempty"`
	TempChauffage *float64 `json:"temp_chauffage,omitempty"`
	Critere       Critere  `json:"critere,omitempty"`
}

// AlimentContexte triggers on food events sharing at least one tag.
type AlimentContexte struct {
	Tags []string `json:"tags,omitempty"`
}

func (TransportContexte) isContexte() {}
func (LogementContexte) isContexte()  {}
func (AlimentContexte) isContexte()   {}

// DecodeContexte parses a raw contexte JSON payload into the typed form for
// the given categorie. An empty payload decodes to an unconstrained contexte.
func DecodeContexte(cat Categorie, raw string) (Contexte, error) {
	if raw == "" {
		raw = "{}"
	}
	switch cat {
	case CategorieTransport:
		var c TransportContexte
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decoding transport contexte: %w", err)
		}
		return c, nil
	case CategorieLogement:
		var c LogementContexte
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decoding logement contexte: %w", err)
		}
		return c, nil
	case CategorieAliment:
		var c AlimentContexte
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decoding aliment contexte: %w", err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown categorie %q", cat)
}
