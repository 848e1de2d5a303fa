package ports

import (
	"context"

	"github.com/storefront/backoffice/internal/core/domain"
)

// LoginInput carries one login attempt. Role, when set, restricts the attempt
// to principals of that role (the admin and staff login endpoints).
type LoginInput struct {
	Username string
	Secret   string
	Role     domain.Role
	RemoteIP string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	Session   *domain.Session
	Principal domain.PrincipalView
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// Authenticate resolves a bearer token to its live session.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, s *domain.Session) error
}
