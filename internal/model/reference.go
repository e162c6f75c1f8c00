// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Chauffage is a heating type reference row with its emission factors.
// Construction is a one-off weight in kgCO2e per m2, usage a yearly weight
// in kgCO2e per m2 heated.
type Chauffage struct {
	ID                  int64   `json:"id"`
	Nom                 string  `json:"nom"`
	FacteurConstruction float64 `json:"facteur_construction"`
	FacteurUsage        float64 `json:"facteur_usage"`
}

// TransportCategorie is a transport mode reference row.
// FacteurCreation is the construction weight of the vehicle in kgCO2e,
// FacteurUsage the per-kilometre usage weight in kgCO2e/km.
type TransportCategorie struct {
	ID              int64   `json:"id"`
	Nom             string  `json:"nom"`
	FacteurCreation float64 `json:"facteur_creation"`
	FacteurUsage    float64 `json:"facteur_usage"`
}

// MoyenneFr is a French national average used for comparison and display.
type MoyenneFr struct {
	ID           int64      `json:"id"`
	Categorie    Categorie  `json:"categorie"`
	TypeAction   TypeAction `json:"type_action"`
	MoyenneValue float64    `json:"moyenne_value"`
	MoyenneUnit  string     `json:"moyenne_unit"`
}
