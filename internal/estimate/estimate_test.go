// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package estimate

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		value     float64
		unit      string
		want      float64
		canonical string
	}{
		{1, "kg", 1, "kg"},
		{500, "g", 0.5, "kg"},
		{250000, "mg", 0.25, "kg"},
		{2, "l", 2, "l"},
		{2, "L", 2, "l"},
		{33, "cl", 0.33, "l"},
		{750, "ml", 0.75, "l"},
	}
	for _, tt := range tests {
		got, canonical, err := Normalize(tt.value, tt.unit)
		if err != nil {
			t.Errorf("Normalize(%v, %q) returned error: %v", tt.value, tt.unit, err)
			continue
		}
		if !almostEqual(got, tt.want) || canonical != tt.canonical {
			t.Errorf("Normalize(%v, %q) = (%v, %q), want (%v, %q)",
				tt.value, tt.unit, got, canonical, tt.want, tt.canonical)
		}
	}
}

func TestNormalizeUnknownUnit(t *testing.T) {
	for _, unit := range []string{"", "oz", "KG", "tonnes"} {
		if _, _, err := Normalize(1, unit); err == nil {
			t.Errorf("Normalize with unit %q should fail", unit)
		}
	}
}

func TestWeight(t *testing.T) {
	// 27 kgCO2e/kg of beef, 200 g portion.
	got, err := Weight(27, 200, "g")
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	if !almostEqual(got, 5.4) {
		t.Errorf("Weight(27, 200, g) = %v, want 5.4", got)
	}

	if _, err := Weight(27, 200, "furlongs"); err == nil {
		t.Error("unknown unit should fail")
	}
}

func TestHeatingCO2(t *testing.T) {
	construction, usage := HeatingCO2(10, 2.5, 60)
	if !almostEqual(construction, 600) {
		t.Errorf("construction = %v, want 600", construction)
	}
	if !almostEqual(usage, 150) {
		t.Errorf("usage = %v, want 150", usage)
	}
}

func TestTransportUsageCO2(t *testing.T) {
	// Without a known consumption, the categorie's per-km factor applies.
	if got := TransportUsageCO2(0.218, 100, 0); !almostEqual(got, 21.8) {
		t.Errorf("factor path = %v, want 21.8", got)
	}

	// A known consumption takes precedence: dist × conso × 2.28.
	if got := TransportUsageCO2(0.218, 100, 0.06); !almostEqual(got, 13.68) {
		t.Errorf("consumption path = %v, want 13.68", got)
	}
}

func TestReferenceNotFoundError(t *testing.T) {
	err := ReferenceNotFoundError{Table: "chauffages", ID: 9999}
	if err.Error() != "reference chauffages/9999 not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var target ReferenceNotFoundError
	if !errors.As(error(err), &target) {
		t.Error("errors.As should match ReferenceNotFoundError")
	}
}
