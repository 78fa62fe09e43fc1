package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// SessionSource exposes the current auth session.
type SessionSource interface {
	Snapshot() domain.AuthSession
}

// Auth requires an authenticated session and injects its user and role into
// the context under "user" and "role".
func Auth(sessions SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.Snapshot()
			if !s.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			c.Set("user", s.User)
			c.Set("role", s.User.Role)

			return next(c)
		}
	}
}
