package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/service"
)

// RBAC enforces role-based access control on top of Auth. An empty role list
// lets every authenticated user through.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, _ := c.Get("user").(*domain.User)
			if !service.CanAccessView(u, allowedRoles) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
