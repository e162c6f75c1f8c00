// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// rate limiting, and request context handling.
package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ContextKey is the type for request context keys set by this package.
type ContextKey string

// ContextKeyCallerID is the context key for the authenticated caller identity.
const ContextKeyCallerID ContextKey = "caller_id"

// ErrInvalidToken is returned by verifiers for tokens the identity provider
// rejects.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier validates a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (callerID string, err error)
}

// WriteAuthError writes a JSON error response for auth failures.
func WriteAuthError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}

// BearerAuth creates middleware that validates the Authorization header
// against the given verifier and stores the caller identity in the request
// context. Missing, malformed, or rejected tokens yield 401.
func BearerAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAuthError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAuthError(w, http.StatusUnauthorized, "invalid Authorization header format, use: Bearer <token>")
				return
			}

			token := parts[1]
			if token == "" {
				WriteAuthError(w, http.StatusUnauthorized, "token is empty")
				return
			}

			callerID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					WriteAuthError(w, http.StatusUnauthorized, "invalid token")
				} else {
					slog.Error("token verification failed", "error", err)
					WriteAuthError(w, http.StatusInternalServerError, "failed to verify token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyCallerID, callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID retrieves the authenticated caller identity from the request
// context, or "" when the request is unauthenticated.
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyCallerID).(string)
	return id
}

// StaticVerifier accepts a single shared secret. Development and test use
// only.
type StaticVerifier struct {
	Secret string
}

// Verify compares the token against the shared secret in constant time.
func (v StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.Secret)) == 1 {
		return "dev", nil
	}
	return "", ErrInvalidToken
}

const identityVerifyTimeout = 10 * time.Second

// IdentityProviderVerifier validates tokens against an external identity
// provider's verification endpoint.
type IdentityProviderVerifier struct {
	verifyURL  string
	httpClient *http.Client
}

// NewIdentityProviderVerifier creates a verifier calling verifyURL.
func NewIdentityProviderVerifier(verifyURL string) *IdentityProviderVerifier {
	return &IdentityProviderVerifier{
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: identityVerifyTimeout},
	}
}

type identityVerifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id"`
}

// Verify posts the token to the identity provider and returns the user id it
// reports.
func (v *IdentityProviderVerifier) Verify(ctx context.Context, token string) (string, error) {
	form := url.Values{}
	form.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var payload identityVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding identity provider response: %w", err)
	}
	if !payload.Valid {
		return "", ErrInvalidToken
	}
	return payload.UserID, nil
}
