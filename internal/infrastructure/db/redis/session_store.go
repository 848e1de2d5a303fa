package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/backoffice/internal/core/domain"
)

// SessionStore keeps sessions in Redis until logout or expiry.
// Key format: session:<id> (hash), principal_sessions:<principal_id> (set of ids).
// Both keys expire with the session, so nothing outlives its TTL.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

type sessionRecord struct {
	PrincipalID int64  `redis:"principal_id"`
	Username    string `redis:"username"`
	Name        string `redis:"name"`
	Role        string `redis:"role"`
	StaffID     string `redis:"staff_id"`
	CreatedAt   int64  `redis:"created_at"`
	ExpiresAt   int64  `redis:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	if !sess.ExpiresAt.After(time.Now()) {
		return errors.New("save session: already expired")
	}

	rec := sessionRecord{
		PrincipalID: sess.PrincipalID,
		Username:    sess.Username,
		Name:        sess.Name,
		Role:        string(sess.Role),
		CreatedAt:   sess.CreatedAt.UnixMilli(),
		ExpiresAt:   sess.ExpiresAt.UnixMilli(),
	}
	if sess.StaffID != nil {
		rec.StaffID = strconv.FormatInt(*sess.StaffID, 10)
	}

	key := sessionKey(sess.ID)
	index := principalKey(sess.PrincipalID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, rec)
		pipe.ExpireAt(ctx, key, sess.ExpiresAt)
		pipe.SAdd(ctx, index, sess.ID)
		// The index lives as long as the newest session of the principal.
		pipe.ExpireAt(ctx, index, sess.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	cmd := s.client.HGetAll(ctx, sessionKey(id))
	fields, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	var rec sessionRecord
	if err := cmd.Scan(&rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	sess := &domain.Session{
		ID:          id,
		PrincipalID: rec.PrincipalID,
		Username:    rec.Username,
		Name:        rec.Name,
		Role:        domain.Role(rec.Role),
		CreatedAt:   time.UnixMilli(rec.CreatedAt).UTC(),
		ExpiresAt:   time.UnixMilli(rec.ExpiresAt).UTC(),
	}
	if rec.StaffID != "" {
		staffID, err := strconv.ParseInt(rec.StaffID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode session staff id: %w", err)
		}
		sess.StaffID = &staffID
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	key := sessionKey(id)
	principalID, err := s.client.HGet(ctx, key, "principal_id").Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, principalKey(principalID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByPrincipal(ctx context.Context, principalID int64) error {
	index := principalKey(principalID)
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("list principal sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, index)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke principal sessions: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func principalKey(principalID int64) string {
	return fmt.Sprintf("principal_sessions:%d", principalID)
}
