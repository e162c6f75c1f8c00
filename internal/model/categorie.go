// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application.
package model

import "fmt"

// Categorie identifies one of the three tracked activity domains.
type Categorie string

// Tracked activity categories.
const (
	CategorieLogement  Categorie = "logement"
	CategorieAliment   Categorie = "aliment"
	CategorieTransport Categorie = "transport"
)

// AllCategories returns every valid categorie.
func AllCategories() []Categorie {
	return []Categorie{CategorieLogement, CategorieAliment, CategorieTransport}
}

// ParseCategorie validates a raw categorie string.
func ParseCategorie(s string) (Categorie, error) {
	switch Categorie(s) {
	case CategorieLogement, CategorieAliment, CategorieTransport:
		return Categorie(s), nil
	}
	return "", fmt.Errorf("unknown categorie %q", s)
}

// TypeAction distinguishes the one-off construction footprint of a thing
// from the recurring footprint of using it.
type TypeAction string

// Action types for reference averages and emission factors.
const (
	TypeActionCreation TypeAction = "creation"
	TypeActionUsage    TypeAction = "usage"
)

// Critere is the comparison direction used by suggestion trigger thresholds.
type Critere string

// Threshold comparison directions, as stored in suggestion contexts.
const (
	CritereSuperieur Critere = "supérieur"
	CritereInferieur Critere = "inférieur"
)

// Compare applies the critere to a value and a threshold.
// An unknown critere never matches.
func (c Critere) Compare(value, threshold float64) bool {
	switch c {
	case CritereSuperieur:
		return value > threshold
	case CritereInferieur:
		return value < threshold
	}
	return false
}
