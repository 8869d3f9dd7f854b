package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NordCoder/Todorus/internal/auth/token"
)

func gateAndIssuer(t *testing.T) (http.Handler, *token.Issuer) {
	t.Helper()
	issuer := token.NewIssuer(token.Config{
		AccessSecret:  []byte(testAccessSecret),
		RefreshSecret: []byte(testRefreshSecret),
		AccessTTL:     time.Minute,
	})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromCtx(r.Context())
		if !ok {
			t.Error("no user id in context behind the gate")
		}
		if uid != 42 {
			t.Errorf("user id = %d want 42", uid)
		}
		w.WriteHeader(http.StatusOK)
	})
	return Middleware(issuer.ParseAccess)(next), issuer
}

func TestMiddleware_NoHeader(t *testing.T) {
	gate, _ := gateAndIssuer(t)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No token provided") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	gate, issuer := gateAndIssuer(t)
	tok, err := issuer.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	for _, header := range []string{"Bearer", "Bearer ", tok, "Basic " + tok} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		gate.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: code = %d want 401", header, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid token format") {
			t.Fatalf("header %q: body = %q", header, rec.Body.String())
		}
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	gate, _ := gateAndIssuer(t)

	past := token.NewIssuer(token.Config{
		AccessSecret:  []byte(testAccessSecret),
		RefreshSecret: []byte(testRefreshSecret),
		AccessTTL:     time.Minute,
		Now:           func() time.Time { return time.Now().Add(-time.Hour) },
	})
	expired, err := past.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid or expired token") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	gate, issuer := gateAndIssuer(t)
	tok, err := issuer.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d want 200, body %q", rec.Code, rec.Body.String())
	}
}
