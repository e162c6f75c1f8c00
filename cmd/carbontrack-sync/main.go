// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command carbontrack-sync reconciles a device's local reference tables
// against the Carbon Track API. It is the CLI counterpart of the sync the
// mobile client runs on startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/talacata-contact/carbon-track/internal/apiclient"
	"github.com/talacata-contact/carbon-track/internal/localcache"
	"github.com/talacata-contact/carbon-track/internal/syncengine"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "Carbon Track API base URL")
	token := flag.String("token", "", "Bearer token (defaults to CARBON_AUTH_SECRET)")
	dbPath := flag.String("db", "./data/device.db", "Device database path")
	table := flag.String("table", "", "Sync a single table (moyennes_fr|suggestions); default all")
	timeout := flag.Duration("timeout", time.Minute, "Overall sync timeout")
	flag.Parse()

	_ = godotenv.Load()
	if *token == "" {
		*token = os.Getenv("CARBON_AUTH_SECRET")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*apiURL, *token, *dbPath, *table, *timeout, logger); err != nil {
		logger.Error("sync failed", "error", err)
		os.Exit(1)
	}
}

func run(apiURL, token, dbPath, table string, timeout time.Duration, logger *slog.Logger) error {
	cache, err := localcache.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening device database: %w", err)
	}
	defer func() { _ = cache.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	engine := syncengine.New(apiclient.New(apiURL, token), cache, logger)

	names := syncengine.Tables
	var results map[string]syncengine.Result
	if table != "" {
		names = []string{table}
		results = map[string]syncengine.Result{table: engine.Sync(ctx, table)}
	} else {
		results = engine.SyncAll(ctx)
	}

	failed := false
	for _, name := range names {
		res := results[name]
		fmt.Printf("%-12s ok=%v  %s\n", name, res.Status, res.Message)
		if !res.Status {
			failed = true
		}
	}

	if failed {
		return fmt.Errorf("one or more tables failed to sync")
	}
	return nil
}
