package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/backoffice/internal/core/domain"
)

const (
	principalCollection = "principals"
	counterCollection   = "counters"
	principalSequence   = "principals"
)

// IdentityRepository implements ports.IdentityRepository using MongoDB.
// Username uniqueness is enforced by a unique index, so concurrent inserts of
// the same username cannot both succeed.
type IdentityRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{
		coll:     db.Collection(principalCollection),
		counters: db.Collection(counterCollection),
	}
}

type mongoPrincipal struct {
	ID             int64   `bson:"_id"`
	Username       string  `bson:"username"`
	CredentialHash string  `bson:"credential_hash"`
	Role           string  `bson:"role"`
	StaffID        *int64  `bson:"staff_id,omitempty"`
	Name           *string `bson:"name,omitempty"`
	CreatedAt      int64   `bson:"created_at"`
}

// EnsureIndexes creates the unique username index. It is idempotent.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

func (r *IdentityRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	doc := mongoPrincipal{
		ID:             id,
		Username:       p.Username,
		CredentialHash: p.CredentialHash,
		Role:           string(p.Role),
		StaffID:        p.StaffID,
		Name:           p.Name,
		CreatedAt:      createdAt.UnixMilli(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}
	return doc.toDomain(), nil
}

// nextID allocates the next principal id from a monotonic counter, so id
// order is creation order.
func (r *IdentityRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": principalSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate principal id: %w", err)
	}
	return counter.Seq, nil
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	var mp mongoPrincipal
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *IdentityRepository) List(ctx context.Context) ([]*domain.Principal, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPrincipal
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode principals: %w", err)
	}
	out := make([]*domain.Principal, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *IdentityRepository) UpdateCredentialHash(ctx context.Context, id int64, hash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"credential_hash": hash}})
	if err != nil {
		return fmt.Errorf("update credential hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IdentityRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count principals: %w", err)
	}
	return n, nil
}

func (mp *mongoPrincipal) toDomain() *domain.Principal {
	return &domain.Principal{
		ID:             mp.ID,
		Username:       mp.Username,
		CredentialHash: mp.CredentialHash,
		Role:           domain.Role(mp.Role),
		StaffID:        mp.StaffID,
		Name:           mp.Name,
		CreatedAt:      unixMilliToTime(mp.CreatedAt),
	}
}

func unixMilliToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ts).UTC()
}
