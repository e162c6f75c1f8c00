// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package foodapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cgi/search.pl" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("search_terms"); got != "steak haché" {
			t.Errorf("search_terms = %q", got)
		}
		_, _ = w.Write([]byte(`{"products": [
			{"code": "3001", "product_name": "Steak haché 5%",
			 "categories_tags": ["viande", "boeuf"],
			 "ecoscore_data": {"agribalyse": {"co2_total": 27.5}}}
		]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	products, err := client.SearchText(context.Background(), "steak haché")
	if err != nil {
		t.Fatalf("SearchText: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	p := products[0]
	if p.Barcode != "3001" || p.Nom != "Steak haché 5%" || p.CO2PerKg != 27.5 {
		t.Errorf("unexpected product: %+v", p)
	}
	if len(p.Tags) != 2 {
		t.Errorf("tags = %v", p.Tags)
	}
}

func TestSearchTextNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	if _, err := client.SearchText(context.Background(), "xyzzy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchBarcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/3001.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status": 1, "product":
			{"code": "3001", "product_name": "Steak haché",
			 "ecoscore_data": {"agribalyse": {"co2_total": 27.5}}}}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	p, err := client.SearchBarcode(context.Background(), "3001")
	if err != nil {
		t.Fatalf("SearchBarcode: %v", err)
	}
	if p.Barcode != "3001" || p.CO2PerKg != 27.5 {
		t.Errorf("unexpected product: %+v", p)
	}
}

func TestSearchBarcodeNotFound(t *testing.T) {
	t.Run("status zero", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": 0}`))
		}))
		defer srv.Close()

		client := New(srv.URL)
		if _, err := client.SearchBarcode(context.Background(), "0"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("http 404", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := New(srv.URL)
		if _, err := client.SearchBarcode(context.Background(), "0"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.SearchText(context.Background(), "anything")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("5xx should be a plain error, got %v", err)
	}
}
