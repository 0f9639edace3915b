package middleware

import (
	"net/http"

	"vespernexus/internal/entity"

	"github.com/labstack/echo/v4"
)

// RequireRole gates a route at a minimum privilege tier. The tiers are
// ordered (root passes every gate) and the refusal is deliberately generic:
// it never says which tier would have been enough.
func RequireRole(min entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFromContext(c)
			if !ok || !role.AtLeast(min) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
