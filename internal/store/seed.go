// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type seedChauffage struct {
	id                  int64
	nom                 string
	facteurConstruction float64
	facteurUsage        float64
}

type seedTransport struct {
	id              int64
	nom             string
	facteurCreation float64
	facteurUsage    float64
}

type seedMoyenne struct {
	id         int64
	categorie  string
	typeAction string
	value      float64
	unit       string
}

type seedSuggestion struct {
	id           int64
	categorie    string
	contexte     string
	suggestion   string
	explications string
	sources      string
}

// Reference factors in kgCO2e, after ADEME Base Carbone orders of magnitude.
var seedChauffages = []seedChauffage{
	{1, "Chauffage au gaz", 85, 23.8},
	{2, "Chauffage au fioul", 100, 34.0},
	{3, "Chauffage électrique", 45, 7.9},
	{4, "Pompe à chaleur", 60, 2.6},
	{5, "Chauffage au bois", 30, 5.2},
	{6, "Réseau de chaleur", 50, 12.6},
}

var seedTransports = []seedTransport{
	{1, "Voiture thermique", 6700, 0.193},
	{2, "Voiture électrique", 9800, 0.020},
	{3, "Bus", 0, 0.113},
	{4, "Train (TER)", 0, 0.030},
	{5, "TGV", 0, 0.0024},
	{6, "Avion court-courrier", 0, 0.258},
	{7, "Vélo", 116, 0},
	{8, "Deux-roues motorisé", 1400, 0.076},
}

var seedMoyennes = []seedMoyenne{
	{1, "logement", "creation", 425, "kgCO2e/an"},
	{2, "logement", "usage", 1430, "kgCO2e/an"},
	{3, "transport", "creation", 740, "kgCO2e/an"},
	{4, "transport", "usage", 1960, "kgCO2e/an"},
	{5, "aliment", "usage", 2350, "kgCO2e/an"},
}

var seedSuggestions = []seedSuggestion{
	{
		1, "transport",
		`{"categorie_ids": [1], "distance_km": 5, "critere": "inférieur"}`,
		"Privilégiez le vélo ou la marche pour vos trajets courts",
		"Un trajet en voiture thermique de moins de 5 km émet proportionnellement plus : moteur froid, surconsommation en ville.",
		`["https://www.ademe.fr"]`,
	},
	{
		2, "transport",
		`{"categorie_ids": [1], "distance_km": 400, "critere": "supérieur"}`,
		"Pensez au train pour vos longs trajets",
		"Sur plus de 400 km, le TGV émet environ 80 fois moins de CO2e par passager qu'une voiture thermique.",
		`["https://www.sncf-connect.com/train/eco-comparateur"]`,
	},
	{
		3, "transport",
		`{"conso_km": 0.07, "critere": "supérieur"}`,
		"Adoptez l'éco-conduite",
		"Au-dessus de 7 L/100km, une conduite souple et un entretien régulier réduisent la consommation de 10 à 20 %.",
		`["https://www.ademe.fr"]`,
	},
	{
		4, "logement",
		`{"temp_chauffage": 20, "critere": "supérieur"}`,
		"Baissez le chauffage à 19°C",
		"Chaque degré au-dessus de 19°C augmente la consommation de chauffage d'environ 7 %.",
		`["https://www.ademe.fr"]`,
	},
	{
		5, "logement",
		`{"chauffage_id": 2}`,
		"Remplacez votre chaudière au fioul",
		"Le fioul est l'énergie de chauffage la plus émettrice. Une pompe à chaleur divise les émissions par dix.",
		`["https://france-renov.gouv.fr"]`,
	},
	{
		6, "logement",
		`{"superficie_m2": 120, "critere": "supérieur"}`,
		"Isolez les grandes surfaces en priorité",
		"Au-delà de 120 m2, l'isolation des combles et des murs est l'investissement au meilleur rendement carbone.",
		`["https://france-renov.gouv.fr"]`,
	},
	{
		7, "aliment",
		`{"tags": ["viande", "boeuf"]}`,
		"Réduisez la viande rouge",
		"Le boeuf émet environ 27 kgCO2e par kg, dix fois plus que la volaille.",
		`["https://agribalyse.ademe.fr"]`,
	},
	{
		8, "aliment",
		`{"tags": ["hors-saison", "importé"]}`,
		"Mangez de saison et local",
		"Un fruit importé par avion hors saison peut émettre dix à vingt fois plus qu'un fruit local de saison.",
		`["https://agribalyse.ademe.fr"]`,
	},
	{
		9, "aliment",
		`{}`,
		"Limitez le gaspillage alimentaire",
		"En France, près de 30 kg d'aliments consommables par personne sont jetés chaque année.",
		`["https://www.ademe.fr"]`,
	},
}

// Seed populates the reference tables when they are empty. It is a no-op when
// doSeed is false or data is already present.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chauffages`).Scan(&count); err != nil {
		return fmt.Errorf("checking reference data: %w", err)
	}
	if count > 0 {
		slog.Info("reference data already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range seedChauffages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chauffages (id, nom, facteur_construction, facteur_usage) VALUES (?, ?, ?, ?)`,
			c.id, c.nom, c.facteurConstruction, c.facteurUsage); err != nil {
			return fmt.Errorf("seeding chauffage %d: %w", c.id, err)
		}
	}

	for _, t := range seedTransports {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transport_categories (id, nom, facteur_creation, facteur_usage) VALUES (?, ?, ?, ?)`,
			t.id, t.nom, t.facteurCreation, t.facteurUsage); err != nil {
			return fmt.Errorf("seeding transport categorie %d: %w", t.id, err)
		}
	}

	for _, m := range seedMoyennes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO moyennes_fr (id, categorie, type_action, moyenne_value, moyenne_unit) VALUES (?, ?, ?, ?, ?)`,
			m.id, m.categorie, m.typeAction, m.value, m.unit); err != nil {
			return fmt.Errorf("seeding moyenne %d: %w", m.id, err)
		}
	}

	for _, s := range seedSuggestions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO suggestions (id, categorie, contexte, suggestion, explications, sources) VALUES (?, ?, ?, ?, ?, ?)`,
			s.id, s.categorie, s.contexte, s.suggestion, s.explications, s.sources); err != nil {
			return fmt.Errorf("seeding suggestion %d: %w", s.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}

	slog.Info("seeded reference data",
		"chauffages", len(seedChauffages),
		"transport_categories", len(seedTransports),
		"moyennes_fr", len(seedMoyennes),
		"suggestions", len(seedSuggestions),
	)
	return nil
}
