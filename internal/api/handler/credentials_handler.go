package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/api/metrics"
	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

// CredentialsHandler issues admin and staff credentials.
type CredentialsHandler struct {
	identity ports.IdentityService
}

func NewCredentialsHandler(identity ports.IdentityService) *CredentialsHandler {
	return &CredentialsHandler{identity: identity}
}

type adminCredentialsRequest struct {
	Username string  `json:"username" validate:"required,max=64"`
	Password string  `json:"password" validate:"required,max=72"`
	Name     *string `json:"name,omitempty"`
}

type staffCredentialsRequest struct {
	Username string  `json:"username" validate:"required,max=64"`
	Password string  `json:"password" validate:"required,max=72"`
	StaffID  *int64  `json:"staffId,omitempty" validate:"omitempty,gt=0"`
	Name     *string `json:"name,omitempty"`
}

type principalResponse struct {
	User domain.PrincipalView `json:"user"`
}

// CreateAdmin issues an administrator credential.
//
// @Summary      Create admin credentials
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      adminCredentialsRequest  true  "Admin credentials"
// @Success      201   {object}  principalResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/credentials [post]
func (h *CredentialsHandler) CreateAdmin(c echo.Context) error {
	var req adminCredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.create(c, ports.CreatePrincipalInput{
		Username: req.Username,
		Secret:   req.Password,
		Role:     domain.RoleAdmin,
		Name:     req.Name,
	})
}

// CreateStaff issues a staff credential, optionally linked to a staff record.
//
// @Summary      Create staff credentials
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      staffCredentialsRequest  true  "Staff credentials"
// @Success      201   {object}  principalResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /staff/credentials [post]
func (h *CredentialsHandler) CreateStaff(c echo.Context) error {
	var req staffCredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.create(c, ports.CreatePrincipalInput{
		Username: req.Username,
		Secret:   req.Password,
		Role:     domain.RoleStaff,
		StaffID:  req.StaffID,
		Name:     req.Name,
	})
}

func (h *CredentialsHandler) create(c echo.Context, in ports.CreatePrincipalInput) error {
	p, err := h.identity.CreatePrincipal(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.PrincipalsCreatedTotal.WithLabelValues(string(p.Role)).Inc()
	return c.JSON(http.StatusCreated, principalResponse{User: p.View()})
}
