package handler

import (
	"context"
	"time"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	logoutFn func(ctx context.Context, s *domain.Session) error
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, sess)
}

type stubIdentityService struct {
	createFn func(ctx context.Context, in ports.CreatePrincipalInput) (*domain.Principal, error)
	findFn   func(ctx context.Context, id int64) (*domain.Principal, error)
	listFn   func(ctx context.Context) ([]domain.PrincipalView, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubIdentityService) CreatePrincipal(ctx context.Context, in ports.CreatePrincipalInput) (*domain.Principal, error) {
	return s.createFn(ctx, in)
}

func (s *stubIdentityService) FindByUsername(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrNotFound
}

func (s *stubIdentityService) FindByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return s.findFn(ctx, id)
}

func (s *stubIdentityService) ListAll(ctx context.Context) ([]domain.PrincipalView, error) {
	return s.listFn(ctx)
}

func (s *stubIdentityService) DeletePrincipal(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func ptr[T any](v T) *T { return &v }

var fixedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
