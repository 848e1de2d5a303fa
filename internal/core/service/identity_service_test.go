package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
	"github.com/storefront/backoffice/internal/infrastructure/security"
)

type identityFixture struct {
	repo     *stubIdentityRepo
	sessions *stubSessionStore
	sink     *recordingSink
	svc      *IdentityService
}

func newIdentityFixture() *identityFixture {
	f := &identityFixture{
		repo:     newStubIdentityRepo(),
		sessions: newStubSessionStore(),
		sink:     &recordingSink{},
	}
	f.svc = NewIdentityService(f.repo, f.sessions, security.NewBcryptHasher(bcrypt.MinCost), f.sink, zerolog.Nop())
	return f
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func TestIdentityService_CreateStaff(t *testing.T) {
	f := newIdentityFixture()

	p, err := f.svc.CreatePrincipal(context.Background(), ports.CreatePrincipalInput{
		Username: "alice",
		Secret:   "secret1",
		Role:     domain.RoleStaff,
		StaffID:  int64Ptr(7),
		Name:     strPtr("Alice"),
	})
	if err != nil {
		t.Fatalf("CreatePrincipal returned error: %v", err)
	}
	if p.Role != domain.RoleStaff {
		t.Fatalf("expected role staff, got %s", p.Role)
	}
	if p.StaffID == nil || *p.StaffID != 7 {
		t.Fatalf("expected staffId 7, got %v", p.StaffID)
	}
	if p.CredentialHash == "secret1" || p.CredentialHash == "" {
		t.Fatalf("expected secret to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.CredentialHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match secret: %v", err)
	}
	if p.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
	if kinds := f.sink.kinds(); len(kinds) != 1 || kinds[0] != domain.EventPrincipalCreated {
		t.Fatalf("expected one principal_created audit event, got %v", kinds)
	}
}

func TestIdentityService_CreateDuplicate(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	if _, err := f.svc.CreatePrincipal(ctx, ports.CreatePrincipalInput{Username: "alice", Secret: "secret1", Role: domain.RoleStaff, StaffID: int64Ptr(7)}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := f.svc.CreatePrincipal(ctx, ports.CreatePrincipalInput{Username: "alice", Secret: "anything", Role: domain.RoleAdmin})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestIdentityService_UsernameIsCaseSensitive(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	if _, err := f.svc.CreatePrincipal(ctx, ports.CreatePrincipalInput{Username: "alice", Secret: "s", Role: domain.RoleStaff}); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := f.svc.CreatePrincipal(ctx, ports.CreatePrincipalInput{Username: "Alice", Secret: "s", Role: domain.RoleStaff}); err != nil {
		t.Fatalf("create Alice: %v", err)
	}
}

func TestIdentityService_ConcurrentCreateSameUsername(t *testing.T) {
	f := newIdentityFixture()
	const n = 16

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.CreatePrincipal(context.Background(), ports.CreatePrincipalInput{
				Username: "racer", Secret: "pw", Role: domain.RoleStaff,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateUsername):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes != 1 || duplicates != n-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", n-1, successes, duplicates)
	}
	if count, _ := f.repo.Count(context.Background()); count != 1 {
		t.Fatalf("expected exactly one stored principal, got %d", count)
	}
}

func TestIdentityService_CreateValidation(t *testing.T) {
	f := newIdentityFixture()

	cases := []ports.CreatePrincipalInput{
		{Username: "", Secret: "pw", Role: domain.RoleStaff},
		{Username: " bob", Secret: "pw", Role: domain.RoleStaff},
		{Username: strings.Repeat("x", maxUsernameLength+1), Secret: "pw", Role: domain.RoleStaff},
		{Username: "bob", Secret: "", Role: domain.RoleStaff},
		{Username: "bob", Secret: strings.Repeat("a", maxSecretBytes+1), Role: domain.RoleStaff},
		{Username: "bob", Secret: "pw", Role: "owner"},
		{Username: "bob", Secret: "pw", Role: domain.RoleAdmin, StaffID: int64Ptr(3)},
	}
	for _, in := range cases {
		if _, err := f.svc.CreatePrincipal(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestIdentityService_CreateBlankNameIsAbsent(t *testing.T) {
	f := newIdentityFixture()

	p, err := f.svc.CreatePrincipal(context.Background(), ports.CreatePrincipalInput{
		Username: "carol", Secret: "pw", Role: domain.RoleAdmin, Name: strPtr("   "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != nil {
		t.Fatalf("expected blank name to be dropped, got %q", *p.Name)
	}
}

func TestIdentityService_ListAllExcludesCredentialHash(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if _, err := f.svc.CreatePrincipal(ctx, ports.CreatePrincipalInput{Username: name, Secret: "pw-" + name, Role: domain.RoleStaff}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	views, err := f.svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(views) != 3 || views[0].Username != "first" || views[2].Username != "third" {
		t.Fatalf("expected creation order, got %+v", views)
	}

	raw, err := json.Marshal(views)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "credential") || strings.Contains(body, "$2a$") {
		t.Fatalf("listing leaks credential material: %s", body)
	}
}

func TestIdentityService_DeleteTwice(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	p, err := f.svc.CreatePrincipal(ctx, ports.CreatePrincipalInput{Username: "dave", Secret: "pw", Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = f.sessions.Save(ctx, &domain.Session{ID: "s1", PrincipalID: p.ID, Role: domain.RoleStaff})
	_ = f.sessions.Save(ctx, &domain.Session{ID: "s2", PrincipalID: p.ID + 100, Role: domain.RoleStaff})

	if err := f.svc.DeletePrincipal(ctx, p.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := f.svc.DeletePrincipal(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := f.sessions.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected sessions of deleted principal to be revoked")
	}
	if f.sessions.len() != 1 {
		t.Fatalf("expected unrelated session to survive")
	}
}

func TestIdentityService_DeleteUnknown(t *testing.T) {
	f := newIdentityFixture()

	if err := f.svc.DeletePrincipal(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	f := newIdentityFixture()
	ctx := context.Background()

	created, err := SeedAdmin(ctx, f.repo, f.svc, "root", "toor", zerolog.Nop())
	if err != nil || !created {
		t.Fatalf("expected admin to be seeded, got %v %v", created, err)
	}
	p, err := f.repo.FindByUsername(ctx, "root")
	if err != nil || p.Role != domain.RoleAdmin {
		t.Fatalf("expected seeded admin, got %+v %v", p, err)
	}

	created, err = SeedAdmin(ctx, f.repo, f.svc, "other", "pw", zerolog.Nop())
	if err != nil || created {
		t.Fatalf("expected seeding to be skipped when principals exist, got %v %v", created, err)
	}
	created, _ = SeedAdmin(ctx, newStubIdentityRepo(), f.svc, "", "", zerolog.Nop())
	if created {
		t.Fatalf("expected no seeding without configured credentials")
	}
}
