package authclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backoffice/internal/core/domain"
)

func TestAuthContext_StartsLoading(t *testing.T) {
	c, _ := newTestClient(t)
	auth := NewAuthContext(c, nil)
	assert.Equal(t, StatusLoading, auth.Status())
	assert.Nil(t, auth.Session())
}

func TestAuthContext_RestoreWithoutToken(t *testing.T) {
	c, _ := newTestClient(t)
	auth := NewAuthContext(c, &MemoryTokenStore{})

	require.NoError(t, auth.Restore(context.Background()))
	assert.Equal(t, StatusAnonymous, auth.Status())
}

func TestAuthContext_LoginRestoreLogout(t *testing.T) {
	c, api := newTestClient(t)
	store := &MemoryTokenStore{}
	ctx := context.Background()

	auth := NewAuthContext(c, store)
	sess, err := auth.Login(ctx, StaffLogin, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, sess.Role)
	assert.Equal(t, StatusAuthenticated, auth.Status())

	// a fresh context over the same store picks the session up again
	restored := NewAuthContext(c, store)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, StatusAuthenticated, restored.Status())
	assert.Equal(t, "alice", restored.Session().Username)

	require.NoError(t, restored.Logout(ctx))
	assert.Equal(t, StatusAnonymous, restored.Status())
	assert.Equal(t, 1, api.logoutCount())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestAuthContext_RestoreWithRevokedToken(t *testing.T) {
	c, _ := newTestClient(t)
	store := &MemoryTokenStore{}
	store.Save("tok-gone")

	auth := NewAuthContext(c, store)
	require.NoError(t, auth.Restore(context.Background()))
	assert.Equal(t, StatusAnonymous, auth.Status())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestAuthContext_FailedLoginKeepsState(t *testing.T) {
	c, _ := newTestClient(t)
	auth := NewAuthContext(c, nil)
	require.NoError(t, auth.Restore(context.Background()))

	_, err := auth.Login(context.Background(), StaffLogin, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StatusAnonymous, auth.Status())
	assert.Empty(t, auth.Token())
}

func TestAuthContext_ExpiredSessionReadsAnonymous(t *testing.T) {
	c, _ := newTestClient(t)
	store := &MemoryTokenStore{}
	auth := NewAuthContext(c, store)

	sess, err := auth.Login(context.Background(), StaffLogin, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, StatusAuthenticated, auth.Status())

	auth.SetClock(func() time.Time { return sess.ExpiresAt })

	assert.Equal(t, StatusAnonymous, auth.Status())
	assert.Nil(t, auth.Session())
	assert.Empty(t, auth.Token())
	_, ok := store.Load()
	assert.False(t, ok)
}
