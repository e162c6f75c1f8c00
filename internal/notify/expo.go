// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify sends push-notification reminders to inactive devices
// through the Expo push gateway.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	pushTimeout = 30 * time.Second

	// Expo rejects request bodies with more than 100 messages.
	MaxBatchSize = 100

	// Receipt detail reported for tokens whose app was uninstalled.
	errDeviceNotRegistered = "DeviceNotRegistered"
)

// Message is one push message addressed to a single device.
type Message struct {
	To    string         `json:"to"`
	Title string         `json:"title,omitempty"`
	Body  string         `json:"body,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// Ticket is the gateway's per-message delivery receipt.
type Ticket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// DeviceNotRegistered reports whether the ticket marks a permanently invalid
// device token.
func (t Ticket) DeviceNotRegistered() bool {
	return t.Status == "error" && t.Details.Error == errDeviceNotRegistered
}

// ExpoClient posts message batches to the Expo push HTTP API.
type ExpoClient struct {
	pushURL    string
	httpClient *http.Client
}

// NewExpoClient creates a client for the gateway at pushURL.
func NewExpoClient(pushURL string) *ExpoClient {
	return &ExpoClient{
		pushURL:    pushURL,
		httpClient: &http.Client{Timeout: pushTimeout},
	}
}

type pushResponse struct {
	Data []Ticket `json:"data"`
}

// SendBatch posts one batch of messages and returns a ticket per message, in
// message order. len(messages) must not exceed MaxBatchSize.
func (c *ExpoClient) SendBatch(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) == 0 {
		return nil, nil
	}
	if len(messages) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d messages exceeds gateway limit of %d", len(messages), MaxBatchSize)
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encoding push batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var payload pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding push response: %w", err)
	}
	if len(payload.Data) != len(messages) {
		return nil, fmt.Errorf("push gateway returned %d tickets for %d messages", len(payload.Data), len(messages))
	}
	return payload.Data, nil
}
