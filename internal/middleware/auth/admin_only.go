package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminOnly gates a route on the role claim of an already-verified token.
// Runs after RequireLogin; the decision is made on the claim snapshot alone,
// the user row is not consulted.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}
