package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/guard"
	"github.com/storefront/backoffice/internal/core/policy"
)

func newTestGuard() *guard.Guard {
	table := guard.DefaultTable()
	table[guard.APIRoute(http.MethodGet, "/staff-area")] = guard.Rule{Capability: domain.CapStaffPage}
	table[guard.APIRoute(http.MethodGet, "/admin-only")] = guard.Rule{Capability: "admin_only"}
	return guard.New(policy.New(policy.DefaultStaffCapabilities), table)
}

// serve runs a request through Guard with the given session and reports the
// status code and whether the handler ran.
func serve(t *testing.T, path string, sess *domain.Session) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	if sess != nil {
		WithSession(c, sess)
	}

	called := false
	handler := Guard(newTestGuard())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestGuard_StaffGrantedCapability(t *testing.T) {
	code, called := serve(t, "/staff-area", &domain.Session{Role: domain.RoleStaff})
	if code != http.StatusOK || !called {
		t.Fatalf("expected 200 and handler call, got %d %v", code, called)
	}
}

func TestGuard_StaffMissingCapability(t *testing.T) {
	code, called := serve(t, "/admin-only", &domain.Session{Role: domain.RoleStaff})
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if called {
		t.Fatalf("handler must not run on a denied request")
	}
}

func TestGuard_AdminAllowedEverywhere(t *testing.T) {
	for _, path := range []string{"/staff-area", "/admin-only", "/users", "/undeclared"} {
		if code, _ := serve(t, path, &domain.Session{Role: domain.RoleAdmin}); code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, code)
		}
	}
}

func TestGuard_Unauthenticated(t *testing.T) {
	code, called := serve(t, "/staff-area", nil)
	if code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without handler call, got %d %v", code, called)
	}
}

func TestGuard_PublicRoute(t *testing.T) {
	code, called := serve(t, "/health", nil)
	if code != http.StatusOK || !called {
		t.Fatalf("expected public route to pass, got %d %v", code, called)
	}
}
