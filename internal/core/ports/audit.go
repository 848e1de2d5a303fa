package ports

import (
	"context"

	"github.com/storefront/backoffice/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuthEvent) error
}

// AuditService writes a single audit event.
type AuditService interface {
	Process(ctx context.Context, e domain.AuthEvent) error
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Record(e domain.AuthEvent)
}
