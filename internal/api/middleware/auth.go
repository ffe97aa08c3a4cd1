package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openclass/lms-platform/internal/api/metrics"
	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/core/ports"
	"github.com/openclass/lms-platform/internal/token"
)

// Context keys for values attached by RequireAuth.
const (
	ContextPrincipal = "principal"
	ContextClaims    = "claims"
)

// authError is the machine-readable envelope for gate failures.
type authError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// RequireAuth extracts the credential, resolves it through the verified path,
// and attaches the principal and raw claims to the request context. Every
// failure short-circuits with a 401 envelope; nothing propagates past the gate.
func RequireAuth(resolver ports.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := token.FromRequest(c.Request())
			if !ok {
				return deny(c, domain.ErrNoToken)
			}

			start := time.Now()
			principal, claims, err := resolver.Resolve(c.Request().Context(), raw)
			if err != nil {
				metrics.SessionResolveDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
				return deny(c, err)
			}
			metrics.SessionResolveDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

			c.Set(ContextPrincipal, principal)
			c.Set(ContextClaims, claims)
			return next(c)
		}
	}
}

// Principal returns the resolved user attached by RequireAuth, or nil.
func Principal(c echo.Context) *domain.User {
	principal, _ := c.Get(ContextPrincipal).(*domain.User)
	return principal
}

// Claims returns the raw token claims attached by RequireAuth.
func Claims(c echo.Context) (token.Claims, bool) {
	claims, ok := c.Get(ContextClaims).(token.Claims)
	return claims, ok
}

func deny(c echo.Context, err error) error {
	code := domain.AuthCode(err)
	metrics.GateDenialsTotal.WithLabelValues(code).Inc()
	return c.JSON(http.StatusUnauthorized, authError{Message: err.Error(), Code: code})
}
