// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Default inactivity threshold, in days, for get-users-to-notify.
const defaultInactivityDays = 7

// UsersToNotify returns the devices whose last check-in is older than the
// inactivity threshold.
// GET /notifications/get-users-to-notify[?days]
func (h *Handler) UsersToNotify(w http.ResponseWriter, r *http.Request) {
	days := int64(defaultInactivityDays)
	if v, ok := queryInt64(r, "days"); ok {
		if v <= 0 {
			writeBadRequest(w, "days must be positive")
			return
		}
		days = v
	}

	cutoff := time.Now().AddDate(0, 0, -int(days))
	users, err := h.queries.ListInactiveUserActivity(r.Context(), cutoff)
	if err != nil {
		slog.Error("failed to list inactive users", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "users", users)
}

// saveUserActivityRequest is the POST body of save-user-activity.
type saveUserActivityRequest struct {
	ExpoToken        string `json:"expoToken"`
	LastActivityDate string `json:"lastActivityDate"`
}

// SaveUserActivity upserts a device's last check-in date.
// POST /notifications/save-user-activity
func (h *Handler) SaveUserActivity(w http.ResponseWriter, r *http.Request) {
	var req saveUserActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var missing []string
	if req.ExpoToken == "" {
		missing = append(missing, "expoToken")
	}
	if req.LastActivityDate == "" {
		missing = append(missing, "lastActivityDate")
	}
	if len(missing) > 0 {
		writeBadRequest(w, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	lastActivity, err := time.Parse(time.RFC3339, req.LastActivityDate)
	if err != nil {
		// The mobile client historically sent bare dates as well.
		lastActivity, err = time.Parse("2006-01-02", req.LastActivityDate)
		if err != nil {
			writeBadRequest(w, "invalid lastActivityDate, want RFC 3339 or YYYY-MM-DD")
			return
		}
	}

	if err := h.queries.UpsertUserActivity(r.Context(), req.ExpoToken, lastActivity); err != nil {
		slog.Error("failed to save user activity", "error", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "saved", true)
}
