package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	token, err := SignSession("secret", SessionClaims{
		Sub:    "admin@example.com",
		Name:   "Admin",
		Exp:    time.Now().Add(time.Hour).Unix(),
		Issuer: "iv-studio",
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := VerifySession("secret", token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "admin@example.com" || claims.Name != "Admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifySessionRejectsTamperedToken(t *testing.T) {
	token, _ := SignSession("secret", SessionClaims{Sub: "a@b.c", Exp: time.Now().Add(time.Hour).Unix()})
	if _, err := VerifySession("other-secret", token); err == nil {
		t.Fatal("expected signature failure with wrong secret")
	}
	if _, err := VerifySession("secret", token+"x"); err == nil {
		t.Fatal("expected signature failure for tampered token")
	}
}

func TestVerifySessionRejectsExpired(t *testing.T) {
	token, _ := SignSession("secret", SessionClaims{Sub: "a@b.c", Exp: time.Now().Add(-time.Minute).Unix()})
	if _, err := VerifySession("secret", token); err == nil {
		t.Fatal("expected expiry failure")
	}
}

func TestRequireSessionGatesRequests(t *testing.T) {
	var gotEmail string
	handler := RequireSession("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = UserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	// no cookie
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	// valid cookie
	token, _ := SignSession("secret", SessionClaims{Sub: "admin@example.com", Exp: time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if gotEmail != "admin@example.com" {
		t.Fatalf("email from context = %q", gotEmail)
	}
}
