// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package suggest

import (
	"testing"

	"github.com/talacata-contact/carbon-track/internal/model"
)

func transportEvent(categorieID int64, params string) model.Event {
	return model.Event{
		ActionCategorie: model.CategorieTransport,
		ReferenceID:     categorieID,
		Params:          params,
	}
}

func suggestionIDs(got []model.Suggestion) []int64 {
	ids := make([]int64, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	return ids
}

func TestFilterShortCarTrip(t *testing.T) {
	suggestions := []model.Suggestion{
		{
			ID:        1,
			Categorie: model.CategorieTransport,
			Contexte:  `{"categorie_ids": [1], "distance_km": 5, "critere": "inférieur"}`,
		},
	}

	// A 3 km car trip triggers the "short trip" suggestion.
	events := []model.Event{transportEvent(1, `{"categorie_id": 1, "distance_km": 3}`)}
	got := Filter(model.CategorieTransport, suggestions, events)
	if len(got) != 1 {
		t.Fatalf("Filter returned %d suggestions, want 1", len(got))
	}

	// A 10 km trip does not.
	events = []model.Event{transportEvent(1, `{"categorie_id": 1, "distance_km": 10}`)}
	if got := Filter(model.CategorieTransport, suggestions, events); len(got) != 0 {
		t.Errorf("Filter returned %d suggestions for a long trip, want 0", len(got))
	}

	// A short trip in another transport categorie does not either.
	events = []model.Event{transportEvent(4, `{"categorie_id": 4, "distance_km": 3}`)}
	if got := Filter(model.CategorieTransport, suggestions, events); len(got) != 0 {
		t.Errorf("Filter returned %d suggestions for wrong categorie, want 0", len(got))
	}
}

func TestFilterHighConsumption(t *testing.T) {
	suggestions := []model.Suggestion{
		{
			ID:        2,
			Categorie: model.CategorieTransport,
			Contexte:  `{"categorie_ids": [1], "conso_km": 7, "critere": "supérieur"}`,
		},
	}

	events := []model.Event{transportEvent(1, `{"categorie_id": 1, "distance_km": 100, "conso_km": 9.5}`)}
	if got := Filter(model.CategorieTransport, suggestions, events); len(got) != 1 {
		t.Errorf("high consumption should trigger, got %d suggestions", len(got))
	}

	events = []model.Event{transportEvent(1, `{"categorie_id": 1, "distance_km": 100, "conso_km": 5}`)}
	if got := Filter(model.CategorieTransport, suggestions, events); len(got) != 0 {
		t.Errorf("low consumption should not trigger, got %d suggestions", len(got))
	}
}

func TestFilterClausesAreANDed(t *testing.T) {
	// Both the distance and the categorie clause must hold on one event.
	suggestions := []model.Suggestion{
		{
			ID:        3,
			Categorie: model.CategorieTransport,
			Contexte:  `{"categorie_ids": [1], "distance_km": 50, "critere": "supérieur"}`,
		},
	}

	// One event satisfies the categorie clause, another the distance clause,
	// but no single event satisfies both.
	events := []model.Event{
		transportEvent(1, `{"categorie_id": 1, "distance_km": 10}`),
		transportEvent(5, `{"categorie_id": 5, "distance_km": 80}`),
	}
	if got := Filter(model.CategorieTransport, suggestions, events); len(got) != 0 {
		t.Errorf("clauses split across events should not trigger, got %d", len(got))
	}

	events = append(events, transportEvent(1, `{"categorie_id": 1, "distance_km": 80}`))
	if got := Filter(model.CategorieTransport, suggestions, events); len(got) != 1 {
		t.Errorf("one event satisfying all clauses should trigger, got %d", len(got))
	}
}

func TestFilterEventsAreORed(t *testing.T) {
	suggestions := []model.Suggestion{
		{
			ID:        4,
			Categorie: model.CategorieTransport,
			Contexte:  `{"categorie_ids": [2]}`,
		},
	}

	events := []model.Event{
		transportEvent(1, `{"categorie_id": 1, "distance_km": 3}`),
		transportEvent(2, `{"categorie_id": 2, "distance_km": 15}`),
	}
	if got := Filter(model.CategorieTransport, suggestions, events); len(got) != 1 {
		t.Errorf("any one matching event should trigger, got %d", len(got))
	}
}

func TestFilterAbsentClausesMatchEverything(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: 5, Categorie: model.CategorieTransport, Contexte: "{}"},
		{ID: 6, Categorie: model.CategorieTransport, Contexte: ""},
	}

	events := []model.Event{transportEvent(3, `{"categorie_id": 3, "distance_km": 1}`)}
	got := Filter(model.CategorieTransport, suggestions, events)
	if len(got) != 2 {
		t.Errorf("unconstrained contexte should match any event, got %d suggestions", len(got))
	}
}

func TestFilterNoEventsNoSuggestions(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: 7, Categorie: model.CategorieTransport, Contexte: "{}"},
	}
	if got := Filter(model.CategorieTransport, suggestions, nil); len(got) != 0 {
		t.Errorf("no events should yield no suggestions, got %d", len(got))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: 10, Categorie: model.CategorieTransport, Contexte: "{}"},
		{ID: 11, Categorie: model.CategorieTransport, Contexte: `{"categorie_ids": [99]}`},
		{ID: 12, Categorie: model.CategorieTransport, Contexte: "{}"},
		{ID: 13, Categorie: model.CategorieTransport, Contexte: "{}"},
	}
	events := []model.Event{transportEvent(1, `{"categorie_id": 1}`)}

	got := Filter(model.CategorieTransport, suggestions, events)
	ids := suggestionIDs(got)
	want := []int64{10, 12, 13}
	if len(ids) != len(want) {
		t.Fatalf("got IDs %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got IDs %v, want %v", ids, want)
		}
	}
}

func TestFilterSkipsOtherCategoriesAndMalformed(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: 20, Categorie: model.CategorieTransport, Contexte: "{}"},
		{ID: 21, Categorie: model.CategorieAliment, Contexte: "{}"},
		{ID: 22, Categorie: model.CategorieTransport, Contexte: "{broken"},
	}
	events := []model.Event{
		{ActionCategorie: model.CategorieAliment, Params: `{"tags": ["beef"]}`},
		transportEvent(1, "{not json"),
		transportEvent(1, `{"categorie_id": 1}`),
	}

	got := Filter(model.CategorieTransport, suggestions, events)
	if len(got) != 1 || got[0].ID != 20 {
		t.Errorf("got IDs %v, want [20]", suggestionIDs(got))
	}
}

func TestFilterLogement(t *testing.T) {
	chauffageID := `{"chauffage_id": 2, "temp_chauffage": 21, "critere": "supérieur"}`
	suggestions := []model.Suggestion{
		{ID: 30, Categorie: model.CategorieLogement, Contexte: chauffageID},
	}

	match := model.Event{
		ActionCategorie: model.CategorieLogement,
		Params:          `{"chauffage_id": 2, "superficie_m2": 60, "temp_chauffage": 22}`,
	}
	if got := Filter(model.CategorieLogement, suggestions, []model.Event{match}); len(got) != 1 {
		t.Errorf("overheated dwelling with matching chauffage should trigger, got %d", len(got))
	}

	wrongHeating := model.Event{
		ActionCategorie: model.CategorieLogement,
		Params:          `{"chauffage_id": 3, "superficie_m2": 60, "temp_chauffage": 22}`,
	}
	if got := Filter(model.CategorieLogement, suggestions, []model.Event{wrongHeating}); len(got) != 0 {
		t.Errorf("different chauffage should not trigger, got %d", len(got))
	}
}

func TestFilterAlimentTags(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: 40, Categorie: model.CategorieAliment, Contexte: `{"tags": ["viande", "boeuf"]}`},
	}

	overlap := model.Event{
		ActionCategorie: model.CategorieAliment,
		Params:          `{"quantity_value": 200, "quantity_unit": "g", "tags": ["boeuf", "surgelé"]}`,
	}
	if got := Filter(model.CategorieAliment, suggestions, []model.Event{overlap}); len(got) != 1 {
		t.Errorf("overlapping tag should trigger, got %d", len(got))
	}

	disjoint := model.Event{
		ActionCategorie: model.CategorieAliment,
		Params:          `{"quantity_value": 200, "quantity_unit": "g", "tags": ["légume"]}`,
	}
	if got := Filter(model.CategorieAliment, suggestions, []model.Event{disjoint}); len(got) != 0 {
		t.Errorf("disjoint tags should not trigger, got %d", len(got))
	}
}

func TestFilterIsPure(t *testing.T) {
	suggestions := []model.Suggestion{
		{ID: 50, Categorie: model.CategorieTransport, Contexte: "{}"},
		{ID: 51, Categorie: model.CategorieTransport, Contexte: `{"categorie_ids": [9]}`},
	}
	events := []model.Event{transportEvent(1, `{"categorie_id": 1}`)}

	first := Filter(model.CategorieTransport, suggestions, events)
	second := Filter(model.CategorieTransport, suggestions, events)
	if len(first) != len(second) {
		t.Fatalf("repeated calls disagree: %d vs %d", len(first), len(second))
	}
	if suggestions[0].ID != 50 || suggestions[1].ID != 51 {
		t.Error("input slice was mutated")
	}
}
