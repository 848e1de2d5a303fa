package authclient

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Status is the lifecycle state of an AuthContext.
type Status int

const (
	StatusLoading Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// TokenStore persists the bearer token between restarts of the client.
type TokenStore interface {
	Load() (string, bool)
	Save(token string)
	Clear()
}

// MemoryTokenStore keeps the token in memory.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokenStore) Load() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemoryTokenStore) Save(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MemoryTokenStore) Clear() {
	m.Save("")
}

// AuthContext holds the current session of one client application. Build
// one at the application root and pass it to whatever needs it.
type AuthContext struct {
	client *Client
	store  TokenStore
	now    func() time.Time

	mu      sync.RWMutex
	status  Status
	token   string
	session *SessionView
}

// NewAuthContext starts in StatusLoading until Restore or Login settles it.
func NewAuthContext(client *Client, store TokenStore) *AuthContext {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	return &AuthContext{client: client, store: store, now: time.Now, status: StatusLoading}
}

// SetClock replaces the clock used to decide whether the session has expired.
func (a *AuthContext) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// Restore asks the API whether the stored token still names a live session.
func (a *AuthContext) Restore(ctx context.Context) error {
	token, ok := a.store.Load()
	if !ok {
		a.setAnonymous()
		return nil
	}

	sess, err := a.client.Session(ctx, token)
	if err != nil {
		a.setAnonymous()
		if errors.Is(err, ErrUnauthenticated) {
			return nil
		}
		return err
	}
	a.set(StatusAuthenticated, token, sess)
	return nil
}

// Login authenticates and, on success, makes the new session current.
func (a *AuthContext) Login(ctx context.Context, kind LoginKind, username, password string) (*SessionView, error) {
	res, err := a.client.Login(ctx, kind, username, password)
	if err != nil {
		return nil, err
	}
	sess := &SessionView{
		Username:  res.User.Username,
		Name:      res.Name,
		Role:      res.Role,
		StaffID:   res.User.StaffID,
		ExpiresAt: res.ExpiresAt,
	}
	a.store.Save(res.Token)
	a.set(StatusAuthenticated, res.Token, sess)
	return sess, nil
}

// Logout ends the session on the API and clears local state. Local state is
// cleared even when the API call fails.
func (a *AuthContext) Logout(ctx context.Context) error {
	_, token, _ := a.current()

	a.setAnonymous()
	if token == "" {
		return nil
	}
	if err := a.client.Logout(ctx, token); err != nil && !errors.Is(err, ErrUnauthenticated) {
		return err
	}
	return nil
}

// Status returns the current lifecycle state. A session past its expiry
// reads as anonymous.
func (a *AuthContext) Status() Status {
	status, _, _ := a.current()
	return status
}

// Session returns the current session, nil unless authenticated.
func (a *AuthContext) Session() *SessionView {
	_, _, sess := a.current()
	return sess
}

// Token returns the bearer token for API calls.
func (a *AuthContext) Token() string {
	_, token, _ := a.current()
	return token
}

// current drops an expired session, clearing the stored token with it.
func (a *AuthContext) current() (Status, string, *SessionView) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == StatusAuthenticated && a.session != nil && !a.now().Before(a.session.ExpiresAt) {
		a.store.Clear()
		a.status, a.token, a.session = StatusAnonymous, "", nil
	}
	return a.status, a.token, a.session
}

func (a *AuthContext) setAnonymous() {
	a.store.Clear()
	a.set(StatusAnonymous, "", nil)
}

func (a *AuthContext) set(status Status, token string, sess *SessionView) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
	a.token = token
	a.session = sess
}
