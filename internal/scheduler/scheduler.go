// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic background jobs: the daily inactivity
// notification pass and the hourly materialization of passive actions.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/talacata-contact/carbon-track/internal/notify"
)

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	db       *sql.DB
	cron     *cron.Cron
	logger   *slog.Logger
	notifier *notify.Notifier
	cronSpec string
}

// New creates a scheduler. notifier runs on cronSpec (standard 5-field cron);
// passive actions materialize at the top of every hour.
func New(db *sql.DB, notifier *notify.Notifier, cronSpec string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:       db,
		cron:     cron.New(),
		logger:   logger,
		notifier: notifier,
		cronSpec: cronSpec,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cronSpec, func() {
		if err := s.notifier.Run(context.Background()); err != nil {
			s.logger.Error("notification run failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.materializePassiveActions(); err != nil {
			s.logger.Error("failed to materialize passive actions", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
