// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apiclient is the device-side client for the Carbon Track REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/talacata-contact/carbon-track/internal/model"
)

const requestTimeout = 15 * time.Second

// Client calls the remote API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the API at baseURL authenticating with token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// MoyennesFr fetches the full national averages table.
func (c *Client) MoyennesFr(ctx context.Context) ([]model.MoyenneFr, error) {
	var payload struct {
		Moyennes []model.MoyenneFr `json:"moyennes"`
	}
	if err := c.getJSON(ctx, "/moyennesFr", &payload); err != nil {
		return nil, err
	}
	return payload.Moyennes, nil
}

// Suggestions fetches the full suggestions table.
func (c *Client) Suggestions(ctx context.Context) ([]model.Suggestion, error) {
	var payload struct {
		Suggestions []model.Suggestion `json:"suggestions"`
	}
	if err := c.getJSON(ctx, "/suggestions", &payload); err != nil {
		return nil, err
	}
	return payload.Suggestions, nil
}

// SaveUserActivity reports the device's last activity date to the backend.
func (c *Client) SaveUserActivity(ctx context.Context, expoToken string, lastActivity time.Time) error {
	body, err := json.Marshal(map[string]string{
		"expoToken":        expoToken,
		"lastActivityDate": lastActivity.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding user activity: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/notifications/save-user-activity", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response for %s: %w", path, err)
	}
	return nil
}
