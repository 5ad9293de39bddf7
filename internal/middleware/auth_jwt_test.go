package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignAndVerifySession(t *testing.T) {
	token, err := SignSession("test-secret", "user-123", "user@example.com", "pro")
	if err != nil {
		t.Fatalf("SignSession() unexpected error: %v", err)
	}
	claims, err := VerifySession("test-secret", token)
	if err != nil {
		t.Fatalf("VerifySession() unexpected error: %v", err)
	}
	if claims.Subject != "user-123" || claims.Email != "user@example.com" || claims.Plan != "pro" {
		t.Fatalf("VerifySession() returned %+v", claims)
	}
}

func TestVerifySessionWrongSecret(t *testing.T) {
	token, err := SignSession("secret-a", "user-123", "user@example.com", "free")
	if err != nil {
		t.Fatalf("SignSession() error: %v", err)
	}
	if _, err := VerifySession("secret-b", token); err == nil {
		t.Fatalf("VerifySession() expected signature error")
	}
}

func TestAuthJWTRejectsMissingHeader(t *testing.T) {
	handler := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run without a token")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rr.Code)
	}
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	var sawUserID string
	handler := OptionalAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	if sawUserID != "" {
		t.Fatalf("anonymous request must not carry a user id, got %q", sawUserID)
	}
}

func TestOptionalAuthAttachesUser(t *testing.T) {
	token, err := SignSession("secret", "user-9", "a@b.c", "free")
	if err != nil {
		t.Fatalf("SignSession() error: %v", err)
	}
	var sawUserID string
	handler := OptionalAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUserID = UserIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if sawUserID != "user-9" {
		t.Fatalf("user id mismatch: got %q", sawUserID)
	}
}

func TestOptionalAuthRejectsGarbageToken(t *testing.T) {
	handler := OptionalAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run with a bad token")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rr.Code)
	}
}
