// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talacata-contact/carbon-track/internal/model"
	"github.com/talacata-contact/carbon-track/internal/store"
)

// Sender sends one batch of messages. Satisfied by *ExpoClient; tests swap in
// a fake.
type Sender interface {
	SendBatch(ctx context.Context, messages []Message) ([]Ticket, error)
}

// Config tunes one notification run.
type Config struct {
	InactivityDays int
	BatchSize      int
	Title          string
	Body           string
}

// Notifier finds inactive devices and reminds them to log activities. Rows
// with malformed or unregistered tokens are pruned as they are discovered.
type Notifier struct {
	queries *store.Queries
	sender  Sender
	logger  *slog.Logger
	cfg     Config
}

// New creates a Notifier over db.
func New(db *sql.DB, sender Sender, logger *slog.Logger, cfg Config) *Notifier {
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	return &Notifier{
		queries: store.New(db),
		sender:  sender,
		logger:  logger,
		cfg:     cfg,
	}
}

// Run executes one notification pass. A batch failure is logged and does not
// abort the remaining batches; only the first setup error is returned.
func (n *Notifier) Run(ctx context.Context) error {
	runID := uuid.NewString()
	cutoff := time.Now().AddDate(0, 0, -n.cfg.InactivityDays)

	inactive, err := n.queries.ListInactiveUserActivity(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(inactive) == 0 {
		n.logger.Debug("no inactive users to notify", "run_id", runID)
		return nil
	}

	tokens := n.pruneInvalid(ctx, runID, inactive)
	if len(tokens) == 0 {
		return nil
	}

	n.logger.Info("sending inactivity reminders",
		"run_id", runID,
		"users", len(tokens),
		"batch_size", n.cfg.BatchSize,
	)

	for start := 0; start < len(tokens); start += n.cfg.BatchSize {
		end := start + n.cfg.BatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		n.sendBatch(ctx, runID, tokens[start:end])
	}

	return nil
}

// pruneInvalid deletes rows whose token fails the basic format check and
// returns the remaining tokens.
func (n *Notifier) pruneInvalid(ctx context.Context, runID string, inactive []model.UserActivity) []string {
	tokens := make([]string, 0, len(inactive))
	for _, ua := range inactive {
		if !model.IsValidExpoToken(ua.ExpoToken) {
			if err := n.queries.DeleteUserActivity(ctx, ua.ExpoToken); err != nil {
				n.logger.Warn("failed to delete malformed token", "run_id", runID, "error", err)
			}
			continue
		}
		tokens = append(tokens, ua.ExpoToken)
	}
	return tokens
}

func (n *Notifier) sendBatch(ctx context.Context, runID string, tokens []string) {
	messages := make([]Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, Message{
			To:    token,
			Title: n.cfg.Title,
			Body:  n.cfg.Body,
		})
	}

	tickets, err := n.sender.SendBatch(ctx, messages)
	if err != nil {
		n.logger.Error("push batch failed", "run_id", runID, "batch_size", len(messages), "error", err)
		return
	}

	for i, ticket := range tickets {
		if !ticket.DeviceNotRegistered() {
			continue
		}
		if err := n.queries.DeleteUserActivity(ctx, tokens[i]); err != nil {
			n.logger.Warn("failed to delete unregistered token", "run_id", runID, "error", err)
			continue
		}
		n.logger.Info("pruned unregistered device token", "run_id", runID)
	}
}
