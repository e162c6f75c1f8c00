// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/talacata-contact/carbon-track/internal/model"
)

// Queries wraps a database handle with typed query methods.
type Queries struct {
	db DBTX
}

// DBTX is satisfied by both *sql.DB and *sql.Tx so queries can run inside
// transactions.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New creates a Queries instance bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// --- Reference data ---

// ListChauffages returns all heating type reference rows ordered by id.
func (q *Queries) ListChauffages(ctx context.Context) ([]model.Chauffage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, nom, facteur_construction, facteur_usage FROM chauffages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Chauffage
	for rows.Next() {
		var c model.Chauffage
		if err := rows.Scan(&c.ID, &c.Nom, &c.FacteurConstruction, &c.FacteurUsage); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetChauffage returns one heating type by id.
func (q *Queries) GetChauffage(ctx context.Context, id int64) (model.Chauffage, error) {
	var c model.Chauffage
	err := q.db.QueryRowContext(ctx,
		`SELECT id, nom, facteur_construction, facteur_usage FROM chauffages WHERE id = ?`, id).
		Scan(&c.ID, &c.Nom, &c.FacteurConstruction, &c.FacteurUsage)
	return c, err
}

// ListTransportCategories returns all transport mode reference rows ordered by id.
func (q *Queries) ListTransportCategories(ctx context.Context) ([]model.TransportCategorie, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, nom, facteur_creation, facteur_usage FROM transport_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.TransportCategorie
	for rows.Next() {
		var tc model.TransportCategorie
		if err := rows.Scan(&tc.ID, &tc.Nom, &tc.FacteurCreation, &tc.FacteurUsage); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// GetTransportCategorie returns one transport mode by id.
func (q *Queries) GetTransportCategorie(ctx context.Context, id int64) (model.TransportCategorie, error) {
	var tc model.TransportCategorie
	err := q.db.QueryRowContext(ctx,
		`SELECT id, nom, facteur_creation, facteur_usage FROM transport_categories WHERE id = ?`, id).
		Scan(&tc.ID, &tc.Nom, &tc.FacteurCreation, &tc.FacteurUsage)
	return tc, err
}

// ListMoyennesFr returns all national average rows ordered by id.
func (q *Queries) ListMoyennesFr(ctx context.Context) ([]model.MoyenneFr, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, categorie, type_action, moyenne_value, moyenne_unit FROM moyennes_fr ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.MoyenneFr
	for rows.Next() {
		var m model.MoyenneFr
		if err := rows.Scan(&m.ID, &m.Categorie, &m.TypeAction, &m.MoyenneValue, &m.MoyenneUnit); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListSuggestions returns all suggestions, optionally restricted to one
// categorie when cat is non-empty. Order is by id so the filter's
// order-preservation property is observable.
func (q *Queries) ListSuggestions(ctx context.Context, cat model.Categorie) ([]model.Suggestion, error) {
	query := `SELECT id, categorie, contexte, suggestion, explications, sources FROM suggestions`
	var args []any
	if cat != "" {
		query += ` WHERE categorie = ?`
		args = append(args, string(cat))
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Suggestion
	for rows.Next() {
		var s model.Suggestion
		var sources string
		if err := rows.Scan(&s.ID, &s.Categorie, &s.Contexte, &s.Suggestion, &s.Explications, &sources); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sources), &s.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources for suggestion %d: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// --- Events ---

// CreateEventParams holds the fields of a new event row.
type CreateEventParams struct {
	ActionCategorie model.Categorie
	ReferenceID     int64
	Params          string
	DateCreation    time.Time
}

// CreateEvent inserts one user-logged activity and returns it with its id.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO events (action_categorie, reference_id, params, date_creation) VALUES (?, ?, ?, ?)`,
		string(arg.ActionCategorie), arg.ReferenceID, arg.Params, arg.DateCreation)
	if err != nil {
		return model.Event{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID:              id,
		ActionCategorie: arg.ActionCategorie,
		ReferenceID:     arg.ReferenceID,
		Params:          arg.Params,
		DateCreation:    arg.DateCreation,
	}, nil
}

// ListEventsByCategorie returns all events of one categorie ordered by creation date.
func (q *Queries) ListEventsByCategorie(ctx context.Context, cat model.Categorie) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, action_categorie, reference_id, params, date_creation
		 FROM events WHERE action_categorie = ? ORDER BY date_creation, id`, string(cat))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.ActionCategorie, &e.ReferenceID, &e.Params, &e.DateCreation); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- Passive actions ---

// CreatePassiveActionParams holds the fields of a new recurrence rule.
type CreatePassiveActionParams struct {
	ActionID    int64
	Categorie   model.Categorie
	Params      string
	RepeatEvery int
	RepeatUnit  model.RepeatUnit
	DateDebut   time.Time
	DateFin     *time.Time
}

// CreatePassiveAction inserts one recurrence rule and returns it with its id.
func (q *Queries) CreatePassiveAction(ctx context.Context, arg CreatePassiveActionParams) (model.PassiveAction, error) {
	var dateFin sql.NullTime
	if arg.DateFin != nil {
		dateFin = sql.NullTime{Time: *arg.DateFin, Valid: true}
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO passive_actions (action_id, categorie, params, repeat_every, repeat_unit, date_debut, date_fin)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ActionID, string(arg.Categorie), arg.Params, arg.RepeatEvery, string(arg.RepeatUnit), arg.DateDebut, dateFin)
	if err != nil {
		return model.PassiveAction{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PassiveAction{}, err
	}
	return model.PassiveAction{
		ID:          id,
		ActionID:    arg.ActionID,
		Categorie:   arg.Categorie,
		Params:      arg.Params,
		RepeatEvery: arg.RepeatEvery,
		RepeatUnit:  arg.RepeatUnit,
		DateDebut:   arg.DateDebut,
		DateFin:     arg.DateFin,
	}, nil
}

// ListActivePassiveActions returns every rule whose window is still open at t.
func (q *Queries) ListActivePassiveActions(ctx context.Context, t time.Time) ([]model.PassiveAction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, action_id, categorie, params, repeat_every, repeat_unit, date_debut, date_fin, last_run
		 FROM passive_actions WHERE date_fin IS NULL OR date_fin >= ? ORDER BY id`, t)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.PassiveAction
	for rows.Next() {
		var pa model.PassiveAction
		var dateFin, lastRun sql.NullTime
		if err := rows.Scan(&pa.ID, &pa.ActionID, &pa.Categorie, &pa.Params,
			&pa.RepeatEvery, &pa.RepeatUnit, &pa.DateDebut, &dateFin, &lastRun); err != nil {
			return nil, err
		}
		if dateFin.Valid {
			pa.DateFin = &dateFin.Time
		}
		if lastRun.Valid {
			pa.LastRun = &lastRun.Time
		}
		out = append(out, pa)
	}
	return out, rows.Err()
}

// UpdatePassiveActionLastRun records the date a rule last materialized an event.
func (q *Queries) UpdatePassiveActionLastRun(ctx context.Context, id int64, lastRun time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE passive_actions SET last_run = ? WHERE id = ?`, lastRun, id)
	return err
}

// --- User activity ---

// UpsertUserActivity records the latest check-in for a device token.
func (q *Queries) UpsertUserActivity(ctx context.Context, token string, lastActivity time.Time) error {
	// Portable upsert: UPDATE then INSERT when nothing matched.
	res, err := q.db.ExecContext(ctx,
		`UPDATE user_activity SET last_activity_date = ? WHERE expo_token = ?`, lastActivity, token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n > 0 {
		return nil
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO user_activity (expo_token, last_activity_date) VALUES (?, ?)`, token, lastActivity)
	return err
}

// ListInactiveUserActivity returns every device whose last check-in is
// strictly before the cutoff.
func (q *Queries) ListInactiveUserActivity(ctx context.Context, before time.Time) ([]model.UserActivity, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT expo_token, last_activity_date FROM user_activity
		 WHERE last_activity_date < ? ORDER BY last_activity_date`, before)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.UserActivity
	for rows.Next() {
		var ua model.UserActivity
		if err := rows.Scan(&ua.ExpoToken, &ua.LastActivityDate); err != nil {
			return nil, err
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// DeleteUserActivity removes the row for an invalid or unregistered token.
func (q *Queries) DeleteUserActivity(ctx context.Context, token string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM user_activity WHERE expo_token = ?`, token)
	return err
}

// --- Log events ---

// CreateLogEventParams holds the fields of a persisted log record.
type CreateLogEventParams struct {
	Level     string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateLogEvent persists one log record.
func (q *Queries) CreateLogEvent(ctx context.Context, arg CreateLogEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO log_events (level, message, metadata, created_at) VALUES (?, ?, ?, ?)`,
		arg.Level, arg.Message, arg.Metadata, arg.CreatedAt)
	return err
}
