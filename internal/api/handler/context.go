package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// Context keys set by the session middleware.
const (
	ContextUser = "user"
	ContextRole = "role"
)

// ctxUser returns the user injected by the session middleware. Handlers
// behind that middleware call it as a fast-fail check before any service call.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get(ContextUser).(*domain.User)
	if u == nil || u.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated session")
	}
	return u, nil
}
