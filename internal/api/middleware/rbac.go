package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openclass/lms-platform/internal/api/metrics"
	"github.com/openclass/lms-platform/internal/core/domain"
)

// RequireRole enforces a role allow-list. It must be composed after
// RequireAuth: a missing principal means the chain was miswired and is
// answered with 401, not 403. Role denial is always 403 and never downgraded.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := Principal(c)
			if principal == nil {
				metrics.GateDenialsTotal.WithLabelValues(domain.CodeAuthError).Inc()
				return c.JSON(http.StatusUnauthorized, authError{
					Message: "no authenticated principal",
					Code:    domain.CodeAuthError,
				})
			}
			if _, ok := allowed[principal.Role]; !ok {
				metrics.GateDenialsTotal.WithLabelValues(domain.CodeForbidden).Inc()
				return c.JSON(http.StatusForbidden, authError{
					Message: domain.ErrForbidden.Error(),
					Code:    domain.CodeForbidden,
				})
			}
			return next(c)
		}
	}
}
