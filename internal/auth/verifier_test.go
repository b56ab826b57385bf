package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func verifyServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_NestedUser(t *testing.T) {
	srv := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["app-id"] != "app-123" || body["refresh-token"] != "tok" {
			t.Errorf("unexpected verify payload: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "u1", "email": "a@example.com"},
		})
	})

	v := NewVerifier(srv.URL, "app-123")
	ident, err := v.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.Email != "a@example.com" {
		t.Errorf("unexpected email %q", ident.Email)
	}
}

func TestVerify_TopLevelUser(t *testing.T) {
	srv := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "a@example.com"})
	})

	v := NewVerifier(srv.URL, "app-123")
	ident, err := v.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.Email != "a@example.com" {
		t.Errorf("unexpected email %q", ident.Email)
	}
}

func TestVerify_RejectedToken(t *testing.T) {
	srv := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	})

	v := NewVerifier(srv.URL, "app-123")
	_, err := v.Verify(context.Background(), "expired")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MissingEmail(t *testing.T) {
	srv := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "u1"},
		})
	})

	v := NewVerifier(srv.URL, "app-123")
	_, err := v.Verify(context.Background(), "tok")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing email, got %v", err)
	}
}

func TestVerify_ServiceDown(t *testing.T) {
	srv := verifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})

	v := NewVerifier(srv.URL, "app-123")
	_, err := v.Verify(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Errorf("a 500 must not look like a caller error: %v", err)
	}
}
