// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talacata-contact/carbon-track/internal/model"
)

func newTestBackend(t *testing.T) Cache {
	t.Helper()
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestTypedCache_BasicOperations(t *testing.T) {
	cache := NewTypedCache[model.Chauffage](newTestBackend(t), time.Hour)
	ctx := context.Background()

	chauffage := &model.Chauffage{ID: 1, Nom: "Pompe à chaleur", FacteurUsage: 2.5}

	if err := cache.Set(ctx, "ref:chauffage:1", chauffage); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := cache.Get(ctx, "ref:chauffage:1")
	if !found {
		t.Fatal("expected to find ref:chauffage:1")
	}
	if got.ID != chauffage.ID || got.Nom != chauffage.Nom {
		t.Errorf("got %+v, want %+v", got, chauffage)
	}
}

func TestTypedCache_CacheMiss(t *testing.T) {
	cache := NewTypedCache[model.Chauffage](newTestBackend(t), time.Hour)

	if _, found := cache.Get(context.Background(), "nonexistent"); found {
		t.Error("expected not to find nonexistent key")
	}
}

func TestTypedCache_Delete(t *testing.T) {
	cache := NewTypedCache[model.Chauffage](newTestBackend(t), time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, "key", &model.Chauffage{ID: 2}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := cache.Get(ctx, "key"); found {
		t.Error("expected key to be gone after Delete")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	cache := NewTypedCache[[]model.Chauffage](newTestBackend(t), time.Hour)
	ctx := context.Background()

	calls := 0
	loader := func() (*[]model.Chauffage, error) {
		calls++
		rows := []model.Chauffage{{ID: 1}, {ID: 2}}
		return &rows, nil
	}

	first, err := cache.GetOrSet(ctx, KeyChauffages, loader)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if len(*first) != 2 {
		t.Fatalf("got %d rows, want 2", len(*first))
	}

	// Second read is served from the cache.
	if _, err := cache.GetOrSet(ctx, KeyChauffages, loader); err != nil {
		t.Fatalf("second GetOrSet failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestTypedCache_GetOrSetLoaderError(t *testing.T) {
	cache := NewTypedCache[model.Chauffage](newTestBackend(t), time.Hour)

	wantErr := errors.New("db down")
	_, err := cache.GetOrSet(context.Background(), "key", func() (*model.Chauffage, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected loader error to surface, got %v", err)
	}
}
