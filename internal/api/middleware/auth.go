package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/backoffice/internal/core/domain"
)

const sessionKey = "session"

// SessionResolver resolves a bearer token to its live session.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Authenticate resolves the bearer token, when one is sent, and stores the
// session in the echo context. A request without a valid token, including
// one whose Authorization header is not a bearer credential, proceeds as
// anonymous; Guard decides whether the route accepts that.
func Authenticate(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return next(c)
			}

			sess, err := resolver.Authenticate(c.Request().Context(), parts[1])
			switch {
			case err == nil:
				c.Set(sessionKey, sess)
			case errors.Is(err, domain.ErrUnauthenticated):
				// Anonymous from here on.
			default:
				return err
			}
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Authenticate, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}

// WithSession stores sess in the echo context.
func WithSession(c echo.Context, sess *domain.Session) {
	c.Set(sessionKey, sess)
}
