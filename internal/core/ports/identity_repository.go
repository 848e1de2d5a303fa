package ports

import (
	"context"

	"github.com/storefront/backoffice/internal/core/domain"
)

// IdentityRepository is the durable collection of principals.
//
// Create must enforce username uniqueness atomically: of several concurrent
// calls with the same username exactly one succeeds and the others return
// domain.ErrDuplicateUsername. It assigns ID.
type IdentityRepository interface {
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	FindByID(ctx context.Context, id int64) (*domain.Principal, error)
	// List returns every principal ordered by creation.
	List(ctx context.Context) ([]*domain.Principal, error)
	UpdateCredentialHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
