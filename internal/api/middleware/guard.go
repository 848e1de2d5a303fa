package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/api/metrics"
	"github.com/storefront/backoffice/internal/core/guard"
)

// Guard enforces the route table on every request. It runs after routing,
// so c.Path() is the matched route template, and before the handler, so a
// denied request has no side effects.
func Guard(g *guard.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := guard.APIRoute(c.Request().Method, c.Path())
			decision := g.Check(SessionFrom(c), route)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case guard.Allow:
				return next(c)
			case guard.Unauthenticated:
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").SetInternal(decision.Err())
			default:
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden").SetInternal(decision.Err())
			}
		}
	}
}
