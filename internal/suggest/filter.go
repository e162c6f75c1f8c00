// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package suggest decides which suggestions are relevant to a user given the
// activities they have already logged. Filtering is pure: no I/O, no side
// effects, deterministic, and order-preserving over the input suggestions.
package suggest

import (
	"github.com/talacata-contact/carbon-track/internal/model"
)

// Filter returns the subset of suggestions whose contexte is satisfied by at
// least one event in eventsDone. Clauses within a contexte are ANDed; events
// are ORed. An absent clause places no constraint. Suggestions of a different
// categorie than cat, and suggestions or events with malformed payloads, are
// excluded.
func Filter(cat model.Categorie, suggestions []model.Suggestion, eventsDone []model.Event) []model.Suggestion {
	// Decode event params once, keeping only events of the right categorie.
	var params []model.EventParams
	for _, ev := range eventsDone {
		if ev.ActionCategorie != cat {
			continue
		}
		p, err := model.DecodeParams(ev.ActionCategorie, ev.Params)
		if err != nil {
			continue
		}
		params = append(params, p)
	}

	out := make([]model.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Categorie != cat {
			continue
		}
		ctx, err := model.DecodeContexte(s.Categorie, s.Contexte)
		if err != nil {
			continue
		}
		for _, p := range params {
			if Matches(ctx, p) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Matches reports whether one event's decoded params satisfy every clause of
// a decoded contexte. A contexte/params category mismatch never matches.
func Matches(ctx model.Contexte, params model.EventParams) bool {
	switch c := ctx.(type) {
	case model.TransportContexte:
		p, ok := params.(model.TransportParams)
		return ok && matchesTransport(c, p)
	case model.LogementContexte:
		p, ok := params.(model.LogementParams)
		return ok && matchesLogement(c, p)
	case model.AlimentContexte:
		p, ok := params.(model.AlimentParams)
		return ok && matchesAliment(c, p)
	}
	return false
}

func matchesTransport(c model.TransportContexte, p model.TransportParams) bool {
	if len(c.CategorieIDs) > 0 && !containsID(c.CategorieIDs, p.CategorieID) {
		return false
	}
	if c.DistanceKm != nil && !c.Critere.Compare(p.DistanceKm, *c.DistanceKm) {
		return false
	}
	if c.ConsoKm != nil && !c.Critere.Compare(p.ConsoKm, *c.ConsoKm) {
		return false
	}
	return true
}

func matchesLogement(c model.LogementContexte, p model.LogementParams) bool {
	if c.ChauffageID != nil && p.ChauffageID != *c.ChauffageID {
		return false
	}
	if c.SuperficieM2 != nil && !c.Critere.Compare(p.SuperficieM2, *c.SuperficieM2) {
		return false
	}
	if c.TempChauffage != nil && !c.Critere.Compare(p.TempChauffage, *c.TempChauffage) {
		return false
	}
	return true
}

func matchesAliment(c model.AlimentContexte, p model.AlimentParams) bool {
	if len(c.Tags) == 0 {
		return true
	}
	for _, want := range c.Tags {
		for _, have := range p.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
