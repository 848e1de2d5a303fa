package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/core/domain"
)

type stubResolver struct {
	sessions map[string]*domain.Session
	err      error
}

func (r *stubResolver) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	sess, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

func newResolver() *stubResolver {
	return &stubResolver{sessions: map[string]*domain.Session{
		"staff-token": {ID: "s1", PrincipalID: 1, Username: "alice", Role: domain.RoleStaff},
		"admin-token": {ID: "s2", PrincipalID: 2, Username: "root", Role: domain.RoleAdmin},
	}}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer staff-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(newResolver())(func(c echo.Context) error {
		called = true
		sess := SessionFrom(c)
		if sess == nil || sess.Username != "alice" || sess.Role != domain.RoleStaff {
			t.Fatalf("session not set: %+v", sess)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_MissingHeaderIsAnonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(newResolver())(func(c echo.Context) error {
		if SessionFrom(c) != nil {
			t.Fatalf("expected no session")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_MalformedHeaderIsAnonymous(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer ", "Basic dXNlcjpwdw=="} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		c := e.NewContext(req, httptest.NewRecorder())

		called := false
		handler := Authenticate(newResolver())(func(c echo.Context) error {
			called = true
			if SessionFrom(c) != nil {
				t.Fatalf("expected no session for header %q", header)
			}
			return nil
		})

		if err := handler(c); err != nil {
			t.Fatalf("unexpected error for header %q: %v", header, err)
		}
		if !called {
			t.Fatalf("expected next to run for header %q", header)
		}
	}
}

func TestAuthenticate_UnknownTokenIsAnonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(newResolver())(func(c echo.Context) error {
		if SessionFrom(c) != nil {
			t.Fatalf("expected no session for unknown token")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_StoreFailureSurfaces(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer staff-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	boom := errors.New("redis down")
	handler := Authenticate(&stubResolver{err: boom})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, boom) {
		t.Fatalf("expected store failure, got %v", err)
	}
}
