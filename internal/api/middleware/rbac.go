package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// RBAC enforces role-based access control over the admin roles injected
// by Auth. A disallowed role surfaces as domain.ErrInvalidRole, which the
// central error handler renders as a 403 envelope.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrInvalidRole
			}
			return next(c)
		}
	}
}
