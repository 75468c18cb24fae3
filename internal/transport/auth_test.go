// Copyright 2025 Joseph Cumines
//
// API key authentication unit tests

package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsAuthEnabled(t *testing.T) {
	if (&HTTPTransportConfig{}).IsAuthEnabled() {
		t.Error("IsAuthEnabled() = true with empty APIKey")
	}
	if !(&HTTPTransportConfig{APIKey: "secret"}).IsAuthEnabled() {
		t.Error("IsAuthEnabled() = false with APIKey set")
	}
}

func TestAuthMiddleware(t *testing.T) {
	tr := newTestTransport(&HTTPTransportConfig{APIKey: "test-secret-key"})

	post := func(mutate func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/message",
			strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
		if mutate != nil {
			mutate(req)
		}
		rec := httptest.NewRecorder()
		tr.Handler().ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing credentials", func(t *testing.T) {
		rec := post(nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Error("WWW-Authenticate header missing")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := post(func(r *http.Request) {
			r.Header.Set("X-API-Key", "wrong")
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		rec := post(func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer test-secret-key")
		})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("api key header accepted", func(t *testing.T) {
		rec := post(func(r *http.Request) {
			r.Header.Set("X-API-Key", "test-secret-key")
		})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		tr.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (no credentials needed)", rec.Code)
		}
	})

	t.Run("events requires credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()
		tr.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestNoAuthWhenKeyUnset(t *testing.T) {
	tr := newTestTransport(nil)

	req := httptest.NewRequest(http.MethodPost, "/message",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	rec := httptest.NewRecorder()
	tr.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without auth configured", rec.Code)
	}
}
