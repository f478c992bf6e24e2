package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/somahub/portal/core/user"
)

// managerMiddleware restricts a route to manager-level roles (admin,
// cluster_admin, principal, school_admin).
func managerMiddleware() echo.MiddlewareFunc {
	return minRoleMiddleware(user.RoleSchoolAdmin)
}

// minRoleMiddleware restricts a route to claims whose role priority is at
// least that of min.
func minRoleMiddleware(min user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if user.RolePriority(claims.Role) >= user.RolePriority(min) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
