// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubVerifier struct {
	callerID string
	err      error
}

func (v stubVerifier) Verify(context.Context, string) (string, error) {
	return v.callerID, v.err
}

func authedRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/suggestions", nil)
	if token != "" {
		r.Header.Set("Authorization", token)
	}
	return r
}

func TestBearerAuth(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(CallerID(r)))
	})

	t.Run("valid token", func(t *testing.T) {
		mw := BearerAuth(stubVerifier{callerID: "user-42"})
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, authedRequest("Bearer good-token"))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "user-42" {
			t.Errorf("caller ID = %q, want user-42", rec.Body.String())
		}
	})

	unauthorized := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"no token", "Bearer"},
		{"empty token", "Bearer "},
	}
	for _, tt := range unauthorized {
		t.Run(tt.name, func(t *testing.T) {
			mw := BearerAuth(stubVerifier{callerID: "user-42"})
			rec := httptest.NewRecorder()
			mw(okHandler).ServeHTTP(rec, authedRequest(tt.header))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}

	t.Run("rejected token", func(t *testing.T) {
		mw := BearerAuth(stubVerifier{err: ErrInvalidToken})
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, authedRequest("Bearer bad-token"))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("verifier failure is a server error", func(t *testing.T) {
		mw := BearerAuth(stubVerifier{err: errors.New("identity provider down")})
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, authedRequest("Bearer any"))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestStaticVerifier(t *testing.T) {
	v := StaticVerifier{Secret: "s3cret"}

	if _, err := v.Verify(context.Background(), "s3cret"); err != nil {
		t.Errorf("matching secret rejected: %v", err)
	}
	if _, err := v.Verify(context.Background(), "wrong"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestIdentityProviderVerifier(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if got := r.FormValue("token"); got != "abc" {
				t.Errorf("token = %q, want abc", got)
			}
			_, _ = w.Write([]byte(`{"valid": true, "user_id": "user-7"}`))
		}))
		defer srv.Close()

		v := NewIdentityProviderVerifier(srv.URL)
		callerID, err := v.Verify(context.Background(), "abc")
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if callerID != "user-7" {
			t.Errorf("callerID = %q, want user-7", callerID)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		v := NewIdentityProviderVerifier(srv.URL)
		if _, err := v.Verify(context.Background(), "abc"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("provider down", func(t *testing.T) {
		v := NewIdentityProviderVerifier("http://localhost:1")
		if _, err := v.Verify(context.Background(), "abc"); err == nil || errors.Is(err, ErrInvalidToken) {
			t.Errorf("unreachable provider should be a non-auth error, got %v", err)
		}
	})
}
