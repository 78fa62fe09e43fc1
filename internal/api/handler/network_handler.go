package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/service"
)

// NetworkLister is the read side of the network registry.
type NetworkLister interface {
	All() []domain.NetworkSpec
}

// CatalogHandler serves the static catalogues: networks and dashboard views.
type CatalogHandler struct {
	networks NetworkLister
}

func NewCatalogHandler(networks NetworkLister) *CatalogHandler {
	return &CatalogHandler{networks: networks}
}

// Networks lists the known networks.
//
// @Summary      Known networks
// @Tags         networks
// @Produce      json
// @Success      200  {array}  domain.NetworkSpec
// @Router       /networks [get]
func (h *CatalogHandler) Networks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.networks.All())
}

// Views lists the dashboard views the signed-in user may open.
//
// @Summary      Permitted dashboard views
// @Tags         views
// @Produce      json
// @Success      200  {object}  viewsResponse
// @Failure      401  {object}  errorResponse
// @Router       /views [get]
func (h *CatalogHandler) Views(c echo.Context) error {
	u, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewsResponse{Views: service.AccessibleViews(u)})
}

// View returns one dashboard view. Access is enforced by the route's RBAC middleware.
//
// @Summary      Dashboard view
// @Tags         views
// @Produce      json
// @Param        id   path      string  true  "View ID"
// @Success      200  {object}  domain.DashboardView
// @Failure      403  {object}  errorResponse
// @Router       /views/{id} [get]
func (h *CatalogHandler) View(view domain.DashboardView) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, view)
	}
}
