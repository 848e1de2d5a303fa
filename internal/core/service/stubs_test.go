package service

import (
	"context"
	"sort"
	"sync"

	"github.com/storefront/backoffice/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubIdentityRepo struct {
	mu      sync.Mutex
	nextID  int64
	byName  map[string]*domain.Principal
	findErr error // if set, FindByUsername returns this error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byName: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Create mirrors the unique index of the real store: the existence check and
// the insert happen under one lock.
func (r *stubIdentityRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[p.Username]; exists {
		return nil, domain.ErrDuplicateUsername
	}
	r.nextID++
	stored := clonePrincipal(p)
	stored.ID = r.nextID
	r.byName[stored.Username] = stored
	return clonePrincipal(stored), nil
}

func (r *stubIdentityRepo) FindByUsername(_ context.Context, username string) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePrincipal(p), nil
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id int64) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byName {
		if p.ID == id {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubIdentityRepo) List(_ context.Context) ([]*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Principal, 0, len(r.byName))
	for _, p := range r.byName {
		out = append(out, clonePrincipal(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubIdentityRepo) UpdateCredentialHash(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byName {
		if p.ID == id {
			p.CredentialHash = hash
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubIdentityRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, p := range r.byName {
		if p.ID == id {
			delete(r.byName, name)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubIdentityRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byName)), nil
}

// setHash overwrites a stored hash, simulating a corrupted record.
func (r *stubIdentityRepo) setHash(username, hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[username].CredentialHash = hash
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *stubSessionStore) DeleteByPrincipal(_ context.Context, principalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.PrincipalID == principalID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *stubSessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *recordingSink) Record(e domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) kinds() []domain.AuthEventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubAuditRepo struct {
	inserted []*domain.AuthEvent
	err      error
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	clone := *e
	r.inserted = append(r.inserted, &clone)
	return nil
}
