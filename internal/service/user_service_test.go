package service

import (
	"context"
	"testing"

	"social-backend/internal/model"
	"social-backend/internal/service/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncUserIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := SyncUserInput{ExternalID: "user_123", Email: "Jane.Doe@example.com", FirstName: "Jane"}

	u, created, err := env.users.SyncUser(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "janedoe", u.Username)
	assert.True(t, u.NotificationSettings.Enabled)

	again, created, err := env.users.SyncUser(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)

	_, _, err = env.users.SyncUser(ctx, SyncUserInput{})
	assertCode(t, err, errors.ErrInvalidInput)
}

func TestSyncUserUniqueUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, _, err := env.users.SyncUser(ctx, SyncUserInput{ExternalID: "a", Username: "sam"})
	require.NoError(t, err)
	second, _, err := env.users.SyncUser(ctx, SyncUserInput{ExternalID: "b", Email: "sam@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "sam", first.Username)
	assert.Equal(t, "sam1", second.Username)
}

func TestResolveExternalID(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	id, err := env.users.ResolveExternalID(context.Background(), "ext_alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)

	_, err = env.users.ResolveExternalID(context.Background(), "nobody")
	assertCode(t, err, errors.ErrNotFound)
}

func TestUpdateProfileInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")

	// 先填充缓存
	before, err := env.hydrator.User(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, before.Bio)

	bio := "hello there"
	updated, err := env.users.UpdateProfile(ctx, alice.ID, model.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)

	after, err := env.hydrator.User(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, bio, after.Bio)

	profile, err := env.users.GetUserProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, bio, profile.Bio)

	_, err = env.users.UpdateProfile(ctx, "ghost", model.ProfileUpdate{Bio: &bio})
	assertCode(t, err, errors.ErrNotFound)
}
