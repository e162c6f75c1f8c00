// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// UserActivity records the last time a device checked in, keyed by its Expo
// push token. Rows are deleted when the token turns out to be invalid.
type UserActivity struct {
	ExpoToken        string    `json:"expoToken"`
	LastActivityDate time.Time `json:"lastActivityDate"`
}

// IsValidExpoToken performs the basic shape check Expo documents for push
// tokens: ExponentPushToken[...] or ExpoPushToken[...] with a non-empty body.
func IsValidExpoToken(token string) bool {
	for _, prefix := range []string{"ExponentPushToken[", "ExpoPushToken["} {
		if strings.HasPrefix(token, prefix) && strings.HasSuffix(token, "]") {
			return len(token) > len(prefix)+1
		}
	}
	return false
}
