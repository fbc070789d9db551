package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"  Bearer abc123", "abc123", true},
		{"Bearer ", "", false},
		{"Basic abc123", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := extractBearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("header %q: got (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	mgr := authsvc.NewJWTManager("test-secret", time.Hour)
	signed, _, err := mgr.GenerateAccessToken("user-7")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("expected identity in context")
		}
		gotUserID = identity.UserID
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	AuthMiddleware(mgr, nil)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-7" {
		t.Fatalf("expected user-7 in context, got %q", gotUserID)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	mgr := authsvc.NewJWTManager("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(mgr, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run without a token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsForgedToken(t *testing.T) {
	mgr := authsvc.NewJWTManager("test-secret", time.Hour)
	forged, _, err := authsvc.NewJWTManager("other-secret", time.Hour).GenerateAccessToken("user-7")
	if err != nil {
		t.Fatalf("generate forged token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()

	AuthMiddleware(mgr, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run with a forged token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
