// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package localcache is the on-device SQLite mirror of the reference tables.
// It is the read source for the mobile client when the network is down and is
// reconciled against the remote API by the sync engine.
package localcache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // device databases are always SQLite

	"github.com/talacata-contact/carbon-track/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Cache wraps the device database.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the device database at path and migrates it.
func Open(path string) (*Cache, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening device database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging device database: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating device database: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ReplaceMoyennes reconciles the local moyennes_fr table against rows: every
// row is upserted and local rows absent from rows are deleted. The whole
// reconciliation runs in one transaction so readers never observe a mix of
// old and new data.
func (c *Cache) ReplaceMoyennes(ctx context.Context, rows []model.MoyenneFr) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO moyennes_fr (id, categorie, type_action, moyenne_value, moyenne_unit)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				categorie = excluded.categorie,
				type_action = excluded.type_action,
				moyenne_value = excluded.moyenne_value,
				moyenne_unit = excluded.moyenne_unit`,
			row.ID, row.Categorie, row.TypeAction, row.MoyenneValue, row.MoyenneUnit)
		if err != nil {
			return fmt.Errorf("upserting moyenne %d: %w", row.ID, err)
		}
		ids = append(ids, row.ID)
	}

	if err := deleteMissing(ctx, tx, "moyennes_fr", ids); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceSuggestions reconciles the local suggestions table the same way
// ReplaceMoyennes does.
func (c *Cache) ReplaceSuggestions(ctx context.Context, rows []model.Suggestion) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		sources, err := json.Marshal(row.Sources)
		if err != nil {
			return fmt.Errorf("encoding sources for suggestion %d: %w", row.ID, err)
		}
		contexte := row.Contexte
		if contexte == "" {
			contexte = "{}"
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO suggestions (id, categorie, contexte, suggestion, explications, sources)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				categorie = excluded.categorie,
				contexte = excluded.contexte,
				suggestion = excluded.suggestion,
				explications = excluded.explications,
				sources = excluded.sources`,
			row.ID, row.Categorie, contexte, row.Suggestion, row.Explications, string(sources))
		if err != nil {
			return fmt.Errorf("upserting suggestion %d: %w", row.ID, err)
		}
		ids = append(ids, row.ID)
	}

	if err := deleteMissing(ctx, tx, "suggestions", ids); err != nil {
		return err
	}
	return tx.Commit()
}

// ListMoyennes returns all locally cached national averages, ordered by ID.
func (c *Cache) ListMoyennes(ctx context.Context) ([]model.MoyenneFr, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, categorie, type_action, moyenne_value, moyenne_unit
		FROM moyennes_fr ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing moyennes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.MoyenneFr
	for rows.Next() {
		var m model.MoyenneFr
		if err := rows.Scan(&m.ID, &m.Categorie, &m.TypeAction, &m.MoyenneValue, &m.MoyenneUnit); err != nil {
			return nil, fmt.Errorf("scanning moyenne: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListSuggestions returns locally cached suggestions, optionally restricted
// to one categorie, ordered by ID.
func (c *Cache) ListSuggestions(ctx context.Context, cat model.Categorie) ([]model.Suggestion, error) {
	query := `SELECT id, categorie, contexte, suggestion, explications, sources FROM suggestions`
	var args []any
	if cat != "" {
		query += ` WHERE categorie = ?`
		args = append(args, cat)
	}
	query += ` ORDER BY id`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Suggestion
	for rows.Next() {
		var s model.Suggestion
		var sources string
		if err := rows.Scan(&s.ID, &s.Categorie, &s.Contexte, &s.Suggestion, &s.Explications, &sources); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		if err := json.Unmarshal([]byte(sources), &s.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources for suggestion %d: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// deleteMissing removes rows from table whose ID is not in keep. An empty
// keep list clears the table: the remote is authoritative even when empty.
func deleteMissing(ctx context.Context, tx *sql.Tx, table string, keep []int64) error {
	if len(keep) == 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //nolint:gosec // table is a compile-time constant
			return fmt.Errorf("clearing %s: %w", table, err)
		}
		return nil
	}

	placeholders := strings.Repeat("?,", len(keep))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(keep))
	for i, id := range keep {
		args[i] = id
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id NOT IN (%s)", table, placeholders) //nolint:gosec // table is a compile-time constant
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("pruning %s: %w", table, err)
	}
	return nil
}
