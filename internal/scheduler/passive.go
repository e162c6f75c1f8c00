// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"time"

	"github.com/talacata-contact/carbon-track/internal/store"
)

// materializePassiveActions turns every due recurrence rule into an event.
// A rule repeatedly due (e.g. after downtime) catches up one occurrence per
// pass; failures on one rule do not block the others.
func (s *Scheduler) materializePassiveActions() error {
	ctx := context.Background()
	queries := store.New(s.db)
	now := time.Now()

	actions, err := queries.ListActivePassiveActions(ctx, now)
	if err != nil {
		return err
	}

	for _, pa := range actions {
		due, err := pa.NextDue()
		if err != nil {
			s.logger.Error("invalid passive action", "action_id", pa.ID, "error", err)
			continue
		}
		if due.After(now) || pa.Expired(due) {
			continue
		}

		_, err = queries.CreateEvent(ctx, store.CreateEventParams{
			ActionCategorie: pa.Categorie,
			ReferenceID:     pa.ActionID,
			Params:          pa.Params,
			DateCreation:    due,
		})
		if err != nil {
			s.logger.Error("failed to materialize passive action",
				"action_id", pa.ID, "due", due, "error", err)
			continue
		}

		if err := queries.UpdatePassiveActionLastRun(ctx, pa.ID, due); err != nil {
			s.logger.Error("failed to record passive action run",
				"action_id", pa.ID, "error", err)
			continue
		}

		s.logger.Info("materialized passive action",
			"action_id", pa.ID,
			"categorie", pa.Categorie,
			"due", due,
		)
	}

	return nil
}
