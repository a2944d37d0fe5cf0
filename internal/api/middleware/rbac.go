package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// RequireRole admits principals whose role is in roles. It must run after
// Authenticate; without a principal it fails with 401.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFrom(c.Request().Context())
			if !ok {
				return domain.ErrNotAuthenticated
			}
			if !allowed.Contains(p.Role) {
				return domain.ErrInsufficientPermission
			}
			return next(c)
		}
	}
}

// RequireAdmin admits ADMIN only.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

// RequireSupervisor admits ADMIN, SUPERVISOR and MANAGER.
func RequireSupervisor() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleSupervisor, domain.RoleManager)
}

// RequireAccountant admits ADMIN and ACCOUNTANT.
func RequireAccountant() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleAccountant)
}
