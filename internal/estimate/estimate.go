// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package estimate computes CO2-equivalent weights from reference emission
// factors and user-supplied quantities. Arithmetic runs on decimals to keep
// unit conversions exact; quantities are assumed already validated by the
// caller.
package estimate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReferenceNotFoundError names the missing reference row behind a failed
// estimation.
type ReferenceNotFoundError struct {
	Table string
	ID    int64
}

func (e ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference %s/%d not found", e.Table, e.ID)
}

// Average emission of burning one litre of petrol, kgCO2e.
const fuelFactorPerLitre = 2.28

var unitConversions = map[string]struct {
	canonical string
	divisor   int64
}{
	"kg": {"kg", 1},
	"g":  {"kg", 1000},
	"mg": {"kg", 1000000},
	"l":  {"l", 1},
	"L":  {"l", 1},
	"cl": {"l", 100},
	"ml": {"l", 1000},
}

// Normalize converts a quantity to its canonical unit (kg for mass, l for
// volume). Unknown units are an error.
func Normalize(value float64, unit string) (normalized float64, canonical string, err error) {
	conv, ok := unitConversions[unit]
	if !ok {
		return 0, "", fmt.Errorf("unknown quantity unit %q", unit)
	}
	d := decimal.NewFromFloat(value).Div(decimal.NewFromInt(conv.divisor))
	f, _ := d.Float64()
	return f, conv.canonical, nil
}

// Weight returns factor × quantity, with the quantity first normalized from
// its unit to the factor's canonical unit.
func Weight(factor, quantityValue float64, quantityUnit string) (float64, error) {
	normalized, _, err := Normalize(quantityValue, quantityUnit)
	if err != nil {
		return 0, err
	}
	f, _ := decimal.NewFromFloat(factor).Mul(decimal.NewFromFloat(normalized)).Float64()
	return f, nil
}

// HeatingCO2 returns the construction and yearly usage weights of heating a
// dwelling: per-m2 factors scaled by the heated area.
func HeatingCO2(facteurConstruction, facteurUsage, superficieM2 float64) (construction, usage float64) {
	area := decimal.NewFromFloat(superficieM2)
	construction, _ = decimal.NewFromFloat(facteurConstruction).Mul(area).Float64()
	usage, _ = decimal.NewFromFloat(facteurUsage).Mul(area).Float64()
	return construction, usage
}

// TransportUsageCO2 returns the weight of a trip. When the traveller knows
// their vehicle's real consumption (litres per km), it takes precedence over
// the categorie's average per-km factor.
func TransportUsageCO2(facteurUsage, distanceKm, consoKm float64) float64 {
	dist := decimal.NewFromFloat(distanceKm)
	if consoKm > 0 {
		f, _ := dist.Mul(decimal.NewFromFloat(consoKm)).Mul(decimal.NewFromFloat(fuelFactorPerLitre)).Float64()
		return f
	}
	f, _ := dist.Mul(decimal.NewFromFloat(facteurUsage)).Float64()
	return f
}
