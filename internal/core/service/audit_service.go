package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, e domain.AuthEvent) error {
	if e.Kind == "" {
		return fmt.Errorf("process audit event: %w: missing kind", domain.ErrInvalidInput)
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &e); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Debug().
		Str("kind", string(e.Kind)).
		Str("username", e.Username).
		Str("outcome", e.Outcome).
		Msg("audit event stored")
	return nil
}
