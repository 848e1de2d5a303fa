package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/api/metrics"
	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	Name      string               `json:"name"`
	Role      domain.Role          `json:"role"`
	User      domain.PrincipalView `json:"user"`
}

type sessionResponse struct {
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	StaffID   *int64      `json:"staffId"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// StaffLogin authenticates a staff member.
//
// @Summary      Staff login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /staff/login [post]
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	return h.login(c, domain.RoleStaff, "staff")
}

// AdminLogin authenticates an administrator.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, domain.RoleAdmin, "admin")
}

func (h *AuthHandler) login(c echo.Context, role domain.Role, endpoint string) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Secret:   req.Password,
		Role:     role,
		RemoteIP: c.RealIP(),
	})
	result := loginResult(err)
	metrics.LoginsTotal.WithLabelValues(endpoint, result).Inc()
	metrics.LoginDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt,
		Name:      res.Session.Name,
		Role:      res.Session.Role,
		User:      res.Principal,
	})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "rejected"
	default:
		return "error"
	}
}

// Logout destroys the caller's session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), sess); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the caller's current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Username:  sess.Username,
		Name:      sess.Name,
		Role:      sess.Role,
		StaffID:   sess.StaffID,
		ExpiresAt: sess.ExpiresAt,
	})
}
