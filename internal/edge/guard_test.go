package edge

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/token"
)

func signedToken(t *testing.T, role domain.Role) string {
	t.Helper()
	codec, err := token.NewCodec("edge-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	signed, _, err := codec.Issue(&domain.User{ID: "u-1", Role: role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return signed
}

func TestDecide_ProtectedPathNoToken(t *testing.T) {
	d := Decide("/admin/dashboard", "")
	if !d.Redirect || d.Target != "/login?from=%2Fadmin%2Fdashboard" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecide_ProtectedPathWrongRole(t *testing.T) {
	d := Decide("/student/dashboard", signedToken(t, domain.RoleInstructor))
	if !d.Redirect || d.Target != "/instructor/dashboard" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecide_ProtectedPathOwnRole(t *testing.T) {
	d := Decide("/student/dashboard", signedToken(t, domain.RoleStudent))
	if d.Redirect {
		t.Fatalf("expected pass-through, got redirect to %s", d.Target)
	}
}

func TestDecide_ProtectedPathGarbageToken(t *testing.T) {
	d := Decide("/admin/users", "garbage")
	if !d.Redirect || d.Target != "/login?from=%2Fadmin%2Fusers" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecide_LoginWithToken(t *testing.T) {
	d := Decide("/login", signedToken(t, domain.RoleStudent))
	if !d.Redirect || d.Target != "/student/dashboard" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecide_LoginWithoutToken(t *testing.T) {
	if d := Decide("/login", ""); d.Redirect {
		t.Fatalf("expected pass-through, got redirect to %s", d.Target)
	}
}

func TestDecide_UnguardedPath(t *testing.T) {
	if d := Decide("/about", ""); d.Redirect {
		t.Fatalf("expected pass-through for unguarded path")
	}
}

// All roles must be covered by the prefix table; a role without a prefix
// would produce redirects to a dangling dashboard path.
func TestRolePrefixTableExhaustive(t *testing.T) {
	for _, role := range domain.Roles {
		prefix, ok := rolePrefix[role]
		if !ok || prefix == "" {
			t.Fatalf("role %q missing from prefix table", role)
		}
		if d := Decide(DashboardPath(role), signedToken(t, role)); d.Redirect {
			t.Fatalf("role %q redirected off its own dashboard to %s", role, d.Target)
		}
	}
}

func TestGuardMiddleware_Redirects(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Guard()
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach upstream")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?from=%2Fadmin%2Fdashboard" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestGuardMiddleware_PassThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: token.CookieName, Value: signedToken(t, domain.RoleStudent)})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Guard()
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}
