package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

const (
	defaultSessionTTL = 12 * time.Hour
	sessionIDBytes    = 32

	// dummySecret only feeds the hash verified for unknown usernames.
	dummySecret = "storefront-timing-equalizer"
)

// sessionClaims is the bearer token payload. The token only names the
// session; the session itself lives in the SessionStore so it can be revoked.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements login, session resolution and logout.
type AuthService struct {
	repo       ports.IdentityRepository
	sessions   ports.SessionStore
	hasher     ports.CredentialHasher
	audit      ports.AuditSink
	log        zerolog.Logger
	jwtSecret  []byte
	sessionTTL time.Duration
	dummyHash  string
	now        func() time.Time
}

// NewAuthService builds the service and precomputes the hash verified for
// unknown usernames, so both rejection paths cost one verification.
func NewAuthService(
	repo ports.IdentityRepository,
	sessions ports.SessionStore,
	hasher ports.CredentialHasher,
	audit ports.AuditSink,
	log zerolog.Logger,
	jwtSecret string,
	sessionTTL time.Duration,
) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, errors.New("auth service: jwt secret is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	dummy, err := hasher.Hash(dummySecret)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{
		repo:       repo,
		sessions:   sessions,
		hasher:     hasher,
		audit:      audit,
		log:        log,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		dummyHash:  dummy,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login runs one authentication attempt. Unknown username, wrong secret and
// a role that does not match the endpoint all return
// domain.ErrInvalidCredentials after exactly one hash verification.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	p, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		_, _ = s.hasher.Verify(in.Secret, s.dummyHash)
		return nil, s.reject(in, "unknown username")
	}

	ok, err := s.hasher.Verify(in.Secret, p.CredentialHash)
	if err != nil {
		s.log.Error().Err(err).Int64("principal_id", p.ID).Msg("stored credential is unreadable")
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, s.reject(in, "wrong secret")
	}
	if in.Role != "" && p.Role != in.Role {
		return nil, s.reject(in, "role does not match login endpoint")
	}
	s.upgradeHash(ctx, p, in.Secret)

	sess, err := s.newSession(p)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("login: save session: %w", err)
	}
	token, err := s.signToken(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().
		Int64("principal_id", p.ID).
		Str("username", p.Username).
		Str("role", string(p.Role)).
		Time("expires_at", sess.ExpiresAt).
		Msg("login succeeded")
	s.audit.Record(domain.AuthEvent{
		Kind:        domain.EventLogin,
		Username:    p.Username,
		PrincipalID: p.ID,
		Role:        p.Role,
		Outcome:     domain.OutcomeSuccess,
		RemoteIP:    in.RemoteIP,
		At:          s.now(),
	})

	return &ports.LoginResult{Token: token, Session: sess, Principal: p.View()}, nil
}

// upgradeHash re-hashes a verified secret whose stored hash was made at
// another cost, so the unknown-username path costs the same as a real one.
// Failures are logged and leave the login alone.
func (s *AuthService) upgradeHash(ctx context.Context, p *domain.Principal, secret string) {
	if !s.hasher.NeedsRehash(p.CredentialHash) {
		return
	}
	hash, err := s.hasher.Hash(secret)
	if err == nil {
		err = s.repo.UpdateCredentialHash(ctx, p.ID, hash)
	}
	if err != nil {
		s.log.Warn().Err(err).Int64("principal_id", p.ID).Msg("credential rehash failed")
		return
	}
	p.CredentialHash = hash
	s.log.Info().Int64("principal_id", p.ID).Msg("credential rehashed")
}

func (s *AuthService) reject(in ports.LoginInput, cause string) error {
	s.log.Info().Str("username", in.Username).Msg("login rejected")
	s.log.Debug().Str("username", in.Username).Str("cause", cause).Msg("login rejection cause")
	s.audit.Record(domain.AuthEvent{
		Kind:     domain.EventLogin,
		Username: in.Username,
		Role:     in.Role,
		Outcome:  domain.OutcomeRejected,
		RemoteIP: in.RemoteIP,
		At:       s.now(),
	})
	return domain.ErrInvalidCredentials
}

// Authenticate resolves a bearer token to a live session. Every failure is
// domain.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if sess.IsExpired(s.now()) || strconv.FormatInt(sess.PrincipalID, 10) != claims.Subject {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

// Logout destroys the session. Logging out an already expired session is
// not an error.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Int64("principal_id", sess.PrincipalID).Str("username", sess.Username).Msg("logout")
	s.audit.Record(domain.AuthEvent{
		Kind:        domain.EventLogout,
		Username:    sess.Username,
		PrincipalID: sess.PrincipalID,
		Role:        sess.Role,
		Outcome:     domain.OutcomeSuccess,
		At:          s.now(),
	})
	return nil
}

func (s *AuthService) newSession(p *domain.Principal) (*domain.Session, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	now := s.now()
	return &domain.Session{
		ID:          hex.EncodeToString(b),
		PrincipalID: p.ID,
		Username:    p.Username,
		Name:        p.DisplayName(),
		Role:        p.Role,
		StaffID:     p.StaffID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessionTTL),
	}, nil
}

func (s *AuthService) signToken(sess *domain.Session) (string, error) {
	claims := sessionClaims{
		Role: string(sess.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatInt(sess.PrincipalID, 10),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
