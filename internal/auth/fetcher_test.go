package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/auth"
	"github.com/ReviveFitness/RF-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_IssueFindRevoke(t *testing.T) {
	ctx := context.Background()
	store := auth.NewSessionStore(testutil.NewTestDB(t), time.Hour)

	token, err := store.Issue(ctx, auth.RoleAdmin, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	session, err := store.FindSessionByID(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, session.Role)
	assert.Equal(t, uint(3), session.SubjectID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	require.NoError(t, store.Revoke(ctx, token))
	_, err = store.FindSessionByID(ctx, token)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestRevokeSubject(t *testing.T) {
	ctx := context.Background()
	d := testutil.NewTestDB(t)
	store := auth.NewSessionStore(d, time.Hour)

	first, err := store.Issue(ctx, auth.RoleMember, 1)
	require.NoError(t, err)
	second, err := store.Issue(ctx, auth.RoleMember, 1)
	require.NoError(t, err)
	other, err := store.Issue(ctx, auth.RoleAdmin, 1)
	require.NoError(t, err)

	require.NoError(t, auth.RevokeSubject(d, auth.RoleMember, 1))

	for _, token := range []string{first, second} {
		_, err := store.FindSessionByID(ctx, token)
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	}
	_, err = store.FindSessionByID(ctx, other)
	assert.NoError(t, err)
}
