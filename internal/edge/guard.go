// Package edge implements the pre-server route guard. It decodes tokens
// without verifying signatures (the edge tier never holds the signing secret)
// and issues fast redirects from a static path-prefix-to-role table. It is a
// UX optimisation only; the API middleware remains the trust boundary.
package edge

import (
	"net/url"
	"strings"

	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/token"
)

// LoginPath is the only unprotected page the guard inspects.
const LoginPath = "/login"

// rolePrefix maps each role to the single root segment it may browse.
// Prefixes are disjoint; exactly one role owns each subtree.
var rolePrefix = map[domain.Role]string{
	domain.RoleAdmin:      "/admin",
	domain.RoleInstructor: "/instructor",
	domain.RoleStudent:    "/student",
}

// DashboardPath returns the dashboard root for a role.
func DashboardPath(role domain.Role) string {
	return rolePrefix[role] + "/dashboard"
}

// Decision is the terminal outcome of the guard's per-request state machine.
type Decision struct {
	Redirect bool
	Target   string // set only when Redirect is true
}

func pass() Decision              { return Decision{} }
func redirect(to string) Decision { return Decision{Redirect: true, Target: to} }

// Decide computes the routing decision for a request path and the raw token
// (empty when absent). Pure: same inputs always produce the same decision.
func Decide(path, rawToken string) Decision {
	if path == LoginPath {
		return decideLogin(rawToken)
	}
	if owner, protected := prefixOwner(path); protected {
		return decideProtected(path, rawToken, owner)
	}
	return pass()
}

// decideLogin bounces already-authenticated browsers to their dashboard. A
// forged or stale cookie can trigger this redirect; the destination's API
// calls still go through the verified gate.
func decideLogin(rawToken string) Decision {
	if rawToken == "" {
		return pass()
	}
	claims, ok := token.DecodeUnsafe(rawToken)
	if !ok {
		return pass()
	}
	role, err := domain.ParseRole(string(claims.Role))
	if err != nil {
		return pass()
	}
	return redirect(DashboardPath(role))
}

func decideProtected(path, rawToken string, owner domain.Role) Decision {
	if rawToken == "" {
		return redirect(loginRedirect(path))
	}
	claims, ok := token.DecodeUnsafe(rawToken)
	if !ok {
		return redirect(loginRedirect(path))
	}
	claimed, err := domain.ParseRole(string(claims.Role))
	if err != nil {
		return redirect(loginRedirect(path))
	}
	if claimed != owner {
		return redirect(DashboardPath(claimed))
	}
	return pass()
}

// loginRedirect preserves the originally requested path for post-login return.
func loginRedirect(from string) string {
	return LoginPath + "?from=" + url.QueryEscape(from)
}

// prefixOwner reports which role owns the path's root segment, if any.
func prefixOwner(path string) (domain.Role, bool) {
	for role, prefix := range rolePrefix {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return role, true
		}
	}
	return "", false
}
