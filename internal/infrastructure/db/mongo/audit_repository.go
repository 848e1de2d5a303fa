package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends an event to the auth_events collection.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuthEvent) error {
	doc := bson.M{
		"kind":        string(e.Kind),
		"username":    e.Username,
		"outcome":     e.Outcome,
		"at":          e.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if e.PrincipalID != 0 {
		doc["principal_id"] = e.PrincipalID
	}
	if e.Role != "" {
		doc["role"] = string(e.Role)
	}
	if e.RemoteIP != "" {
		doc["remote_ip"] = e.RemoteIP
	}

	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
