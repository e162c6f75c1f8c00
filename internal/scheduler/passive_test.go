// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/talacata-contact/carbon-track/internal/model"
	"github.com/talacata-contact/carbon-track/internal/store"
	"github.com/talacata-contact/carbon-track/internal/testutil"
)

func TestMaterializePassiveActions(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	now := time.Now()

	// Due: started a week ago, never ran.
	due, err := q.CreatePassiveAction(ctx, store.CreatePassiveActionParams{
		ActionID:    1,
		Categorie:   model.CategorieLogement,
		Params:      `{"chauffage_id": 1, "superficie_m2": 50}`,
		RepeatEvery: 1,
		RepeatUnit:  model.RepeatSemaines,
		DateDebut:   now.AddDate(0, 0, -7),
	})
	if err != nil {
		t.Fatalf("CreatePassiveAction(due): %v", err)
	}

	// Not due yet: starts next month.
	_, err = q.CreatePassiveAction(ctx, store.CreatePassiveActionParams{
		ActionID:    2,
		Categorie:   model.CategorieTransport,
		Params:      `{"categorie_id": 1, "distance_km": 20}`,
		RepeatEvery: 1,
		RepeatUnit:  model.RepeatMois,
		DateDebut:   now.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("CreatePassiveAction(future): %v", err)
	}

	s := New(db, nil, "0 18 * * *", testutil.TestLoggerSilent())
	if err := s.materializePassiveActions(); err != nil {
		t.Fatalf("materializePassiveActions: %v", err)
	}

	events, err := q.ListEventsByCategorie(ctx, model.CategorieLogement)
	if err != nil {
		t.Fatalf("ListEventsByCategorie: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d logement events, want 1", len(events))
	}
	if events[0].ReferenceID != due.ActionID {
		t.Errorf("event references action %d, want %d", events[0].ReferenceID, due.ActionID)
	}
	if events[0].Params != due.Params {
		t.Errorf("event params = %q, want the rule's params", events[0].Params)
	}

	transport, err := q.ListEventsByCategorie(ctx, model.CategorieTransport)
	if err != nil {
		t.Fatalf("ListEventsByCategorie(transport): %v", err)
	}
	if len(transport) != 0 {
		t.Errorf("future rule materialized %d events, want 0", len(transport))
	}

	// A second pass within the same period creates nothing new: the rule's
	// last_run now equals the materialized occurrence.
	if err := s.materializePassiveActions(); err != nil {
		t.Fatalf("second materializePassiveActions: %v", err)
	}
	events, err = q.ListEventsByCategorie(ctx, model.CategorieLogement)
	if err != nil {
		t.Fatalf("ListEventsByCategorie after second pass: %v", err)
	}
	if len(events) != 2 {
		// First pass materialized DateDebut (a week ago); the second pass
		// finds the next occurrence due today and materializes it too.
		t.Fatalf("got %d events after second pass, want 2", len(events))
	}

	// A third pass finds the next occurrence a week out and stops.
	if err := s.materializePassiveActions(); err != nil {
		t.Fatalf("third materializePassiveActions: %v", err)
	}
	events, err = q.ListEventsByCategorie(ctx, model.CategorieLogement)
	if err != nil {
		t.Fatalf("ListEventsByCategorie after third pass: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events after third pass, want still 2", len(events))
	}
}

func TestMaterializeSkipsOccurrencesPastWindow(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	now := time.Now()

	// The rule already ran and its next occurrence falls past date_fin.
	fin := now.AddDate(0, 0, 2)
	rule, err := q.CreatePassiveAction(ctx, store.CreatePassiveActionParams{
		ActionID:    3,
		Categorie:   model.CategorieAliment,
		Params:      `{"quantity_value": 1, "quantity_unit": "l"}`,
		RepeatEvery: 1,
		RepeatUnit:  model.RepeatSemaines,
		DateDebut:   now.AddDate(0, 0, -5),
		DateFin:     &fin,
	})
	if err != nil {
		t.Fatalf("CreatePassiveAction: %v", err)
	}
	if err := q.UpdatePassiveActionLastRun(ctx, rule.ID, now.AddDate(0, 0, -5)); err != nil {
		t.Fatalf("UpdatePassiveActionLastRun: %v", err)
	}

	s := New(db, nil, "0 18 * * *", testutil.TestLoggerSilent())
	if err := s.materializePassiveActions(); err != nil {
		t.Fatalf("materializePassiveActions: %v", err)
	}

	events, err := q.ListEventsByCategorie(ctx, model.CategorieAliment)
	if err != nil {
		t.Fatalf("ListEventsByCategorie: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("occurrence past date_fin materialized %d events, want 0", len(events))
	}
}
