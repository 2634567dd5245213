package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookkeep/library-records/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextMemberID = "member_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// TokenVerifier validates a bearer token and returns its principal.
type TokenVerifier interface {
	VerifyToken(token string) (*ports.Principal, error)
}

// Auth validates the bearer token and injects the principal into context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return unauthorized(c, "invalid authorization header")
			}

			principal, err := verifier.VerifyToken(parts[1])
			if err != nil {
				return unauthorized(c, "invalid token")
			}

			c.Set(ContextMemberID, principal.MemberID)
			c.Set(ContextUsername, principal.Name)
			c.Set(ContextRole, principal.Role)

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
