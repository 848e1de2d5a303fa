package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

const (
	maxUsernameLength = 64
	// bcrypt only looks at the first 72 bytes of a secret.
	maxSecretBytes = 72
)

// IdentityService issues and manages principals.
type IdentityService struct {
	repo     ports.IdentityRepository
	sessions ports.SessionStore
	hasher   ports.CredentialHasher
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewIdentityService(
	repo ports.IdentityRepository,
	sessions ports.SessionStore,
	hasher ports.CredentialHasher,
	audit ports.AuditSink,
	log zerolog.Logger,
) *IdentityService {
	return &IdentityService{repo: repo, sessions: sessions, hasher: hasher, audit: audit, log: log}
}

// CreatePrincipal creates a principal. The username is checked before the
// secret is hashed; the repository's unique constraint still settles races.
func (s *IdentityService) CreatePrincipal(ctx context.Context, in ports.CreatePrincipalInput) (*domain.Principal, error) {
	if err := validatePrincipalInput(in); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create principal: %w", err)
	}

	hash, err := s.hasher.Hash(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("create principal: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Principal{
		Username:       in.Username,
		CredentialHash: hash,
		Role:           in.Role,
		StaffID:        in.StaffID,
		Name:           normalizeName(in.Name),
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		s.log.Error().Err(err).Str("username", in.Username).Msg("failed to create principal")
		return nil, fmt.Errorf("create principal: %w", err)
	}

	s.log.Info().
		Int64("principal_id", created.ID).
		Str("username", created.Username).
		Str("role", string(created.Role)).
		Msg("principal created")
	s.audit.Record(domain.AuthEvent{
		Kind:        domain.EventPrincipalCreated,
		Username:    created.Username,
		PrincipalID: created.ID,
		Role:        created.Role,
		Outcome:     domain.OutcomeSuccess,
		At:          time.Now().UTC(),
	})

	return created, nil
}

func (s *IdentityService) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *IdentityService) FindByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAll returns every principal in creation order, without credentials.
func (s *IdentityService) ListAll(ctx context.Context) ([]domain.PrincipalView, error) {
	principals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	views := make([]domain.PrincipalView, 0, len(principals))
	for _, p := range principals {
		views = append(views, p.View())
	}
	return views, nil
}

// DeletePrincipal removes a principal and revokes its sessions. A missing id
// is reported as domain.ErrNotFound.
func (s *IdentityService) DeletePrincipal(ctx context.Context, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.sessions.DeleteByPrincipal(ctx, id); err != nil {
		// The principal is gone; its sessions still expire on their own TTL.
		s.log.Error().Err(err).Int64("principal_id", id).Msg("failed to revoke sessions of deleted principal")
	}

	s.log.Info().Int64("principal_id", id).Str("username", p.Username).Msg("principal deleted")
	s.audit.Record(domain.AuthEvent{
		Kind:        domain.EventPrincipalDeleted,
		Username:    p.Username,
		PrincipalID: p.ID,
		Role:        p.Role,
		Outcome:     domain.OutcomeSuccess,
		At:          time.Now().UTC(),
	})
	return nil
}

func validatePrincipalInput(in ports.CreatePrincipalInput) error {
	switch {
	case in.Username == "" || strings.TrimSpace(in.Username) != in.Username:
		return fmt.Errorf("%w: username is required and must not have surrounding spaces", domain.ErrInvalidInput)
	case len(in.Username) > maxUsernameLength:
		return fmt.Errorf("%w: username must be at most %d characters", domain.ErrInvalidInput, maxUsernameLength)
	case in.Secret == "":
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	case len(in.Secret) > maxSecretBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxSecretBytes)
	case !in.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	case in.Role != domain.RoleStaff && in.StaffID != nil:
		return fmt.Errorf("%w: staffId is only valid for staff principals", domain.ErrInvalidInput)
	}
	return nil
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
