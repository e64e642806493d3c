package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/candyline/sweet-shop/internal/service"
)

type TokenMiddleware struct {
	Auth *service.AuthService
}

// RequireLogin validates the bearer token and puts the decoded claims into
// the echo context under "userID" and "role".
func (t *TokenMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := t.claimsFromRequest(c)
		if err != nil {
			return err
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (t *TokenMiddleware) claimsFromRequest(c echo.Context) (service.Claims, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return service.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return service.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := t.Auth.Verify(parts[1])
	if err != nil {
		return service.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

func setUserContext(c echo.Context, claims service.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
}
