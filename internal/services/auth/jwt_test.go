package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	signed, expiresAt, err := mgr.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected signed token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := mgr.ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.UserID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	mgr := NewJWTManager("secret-a", time.Hour)
	other := NewJWTManager("secret-b", time.Hour)

	signed, _, err := mgr.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	if _, err := other.ParseAccessToken(signed); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	mgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, _, err := mgr.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	if _, err := NewJWTManager("test-secret", time.Hour).ParseAccessToken(signed); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	for _, raw := range []string{"", "   ", "not-a-token"} {
		if _, err := mgr.ParseAccessToken(raw); err != ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", raw, err)
		}
	}
}
