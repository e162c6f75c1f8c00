// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var messages []Message
		if err := json.NewDecoder(r.Body).Decode(&messages); err != nil {
			t.Errorf("decoding batch: %v", err)
		}
		tickets := make([]Ticket, len(messages))
		for i := range tickets {
			tickets[i].Status = "ok"
			tickets[i].ID = "ticket"
		}
		_ = json.NewEncoder(w).Encode(pushResponse{Data: tickets})
	}))
	defer srv.Close()

	client := NewExpoClient(srv.URL)
	tickets, err := client.SendBatch(context.Background(), []Message{
		{To: "ExponentPushToken[a]", Title: "t", Body: "b"},
		{To: "ExponentPushToken[b]", Title: "t", Body: "b"},
	})
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}
}

func TestSendBatchEmpty(t *testing.T) {
	client := NewExpoClient("http://localhost:1")
	tickets, err := client.SendBatch(context.Background(), nil)
	if err != nil || tickets != nil {
		t.Errorf("empty batch should be a no-op, got (%v, %v)", tickets, err)
	}
}

func TestSendBatchOversized(t *testing.T) {
	client := NewExpoClient("http://localhost:1")
	messages := make([]Message, MaxBatchSize+1)
	if _, err := client.SendBatch(context.Background(), messages); err == nil {
		t.Error("oversized batch should be rejected before any request")
	}
}

func TestSendBatchTicketCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pushResponse{Data: []Ticket{{Status: "ok"}}})
	}))
	defer srv.Close()

	client := NewExpoClient(srv.URL)
	messages := []Message{{To: "ExponentPushToken[a]"}, {To: "ExponentPushToken[b]"}}
	if _, err := client.SendBatch(context.Background(), messages); err == nil {
		t.Error("ticket/message count mismatch should fail")
	}
}

func TestSendBatchGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewExpoClient(srv.URL)
	if _, err := client.SendBatch(context.Background(), []Message{{To: "ExponentPushToken[a]"}}); err == nil {
		t.Error("non-200 gateway response should fail")
	}
}

func TestTicketDeviceNotRegistered(t *testing.T) {
	var ticket Ticket
	ticket.Status = "error"
	ticket.Details.Error = "DeviceNotRegistered"
	if !ticket.DeviceNotRegistered() {
		t.Error("DeviceNotRegistered ticket not detected")
	}

	ticket.Status = "ok"
	if ticket.DeviceNotRegistered() {
		t.Error("ok ticket misclassified")
	}
}
