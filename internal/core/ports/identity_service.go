package ports

import (
	"context"

	"github.com/storefront/backoffice/internal/core/domain"
)

// CreatePrincipalInput is the DTO passed from the transport layer to IdentityService.
type CreatePrincipalInput struct {
	Username string
	Secret   string
	Role     domain.Role
	StaffID  *int64
	Name     *string
}

type IdentityService interface {
	CreatePrincipal(ctx context.Context, in CreatePrincipalInput) (*domain.Principal, error)
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	FindByID(ctx context.Context, id int64) (*domain.Principal, error)
	ListAll(ctx context.Context) ([]domain.PrincipalView, error)
	DeletePrincipal(ctx context.Context, id int64) error
}
