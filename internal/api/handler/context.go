package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/api/middleware"
	"github.com/storefront/backoffice/internal/core/domain"
)

// currentSession returns the authenticated session. Guard has already run,
// so a missing session here means the route was wired without it.
func currentSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator. Failures wrap domain.ErrInvalidInput.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalidInput("invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return invalidInput(err.Error())
		}
	}
	return nil
}
