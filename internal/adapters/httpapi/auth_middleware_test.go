package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDevAuthMiddleware_SubjectAndRolesFromHeaders(t *testing.T) {
	t.Parallel()

	var got Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := NewDevAuthMiddleware("")(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-Subject", "sub-dev")
	req.Header.Set("X-Debug-Roles", "admin staff")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if got.Subject != "sub-dev" || !got.IsAdmin() {
		t.Fatalf("identity=%+v", got)
	}
}

func TestDevAuthMiddleware_MissingSubject_401(t *testing.T) {
	t.Parallel()

	h := NewDevAuthMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestDevAuthMiddleware_DefaultSubjectFallback(t *testing.T) {
	t.Parallel()

	var got Identity
	h := NewDevAuthMiddleware("sub-default")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || got.Subject != "sub-default" {
		t.Fatalf("status=%d identity=%+v", rec.Code, got)
	}
}
