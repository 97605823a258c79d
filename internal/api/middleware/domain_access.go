package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireDomain enforces the static role→domain capability table. Requests
// without a principal, or whose role does not grant the domain, are rejected
// (fail-closed, never fail-open).
func RequireDomain(domainID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := Principal(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !user.CanAccessDomain(domainID) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "domain access forbidden"})
			}
			return next(c)
		}
	}
}
