package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/bookkeep/library-records/internal/core/domain"
)

// RBAC admits the request only when the role that Auth stored in the context
// is one of roles. Anything else, including a request that never went through
// Auth, fails with domain.ErrForbidden.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(string)
			if !ok || !slices.Contains(roles, role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
