package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/guard"
)

// RoutesHandler publishes the route table so clients enforce the same rules
// as the API.
type RoutesHandler struct {
	guard *guard.Guard
}

func NewRoutesHandler(g *guard.Guard) *RoutesHandler {
	return &RoutesHandler{guard: g}
}

type routesResponse struct {
	Routes            []guard.Entry          `json:"routes"`
	StaffCapabilities []domain.Capability    `json:"staffCapabilities"`
	Landing           map[domain.Role]string `json:"landing"`
}

// List returns the declarative route table together with the staff grant.
//
// @Summary      Route table
// @Tags         auth
// @Produce      json
// @Success      200  {object}  routesResponse
// @Router       /auth/routes [get]
func (h *RoutesHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, routesResponse{
		Routes:            h.guard.Entries(),
		StaffCapabilities: h.guard.Policy().Grants(domain.RoleStaff),
		Landing: map[domain.Role]string{
			domain.RoleAdmin: h.guard.Landing(domain.RoleAdmin),
			domain.RoleStaff: h.guard.Landing(domain.RoleStaff),
		},
	})
}
