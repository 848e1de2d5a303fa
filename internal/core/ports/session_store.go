package ports

import (
	"context"

	"github.com/storefront/backoffice/internal/core/domain"
)

// SessionStore holds live sessions until logout or expiry.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByPrincipal revokes every session of a principal.
	DeleteByPrincipal(ctx context.Context, principalID int64) error
}
