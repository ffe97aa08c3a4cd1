package edge

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openclass/lms-platform/internal/api/metrics"
	"github.com/openclass/lms-platform/internal/token"
)

// Guard returns an echo middleware that applies Decide to every navigable
// request, redirecting before the upstream frontend is reached.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := token.FromRequest(c.Request())
			decision := Decide(c.Request().URL.Path, raw)
			if decision.Redirect {
				metrics.EdgeDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusTemporaryRedirect, decision.Target)
			}
			metrics.EdgeDecisionsTotal.WithLabelValues("pass").Inc()
			return next(c)
		}
	}
}
