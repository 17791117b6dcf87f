package service

import (
	"context"
	"testing"

	"social-backend/internal/model"
	"social-backend/internal/service/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) assertFollowCounts(t *testing.T, id string, followers, following int64) {
	t.Helper()
	ctx := context.Background()
	u, err := e.store.Users().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, followers, u.FollowersCount, "followersCount")
	assert.Equal(t, following, u.FollowingCount, "followingCount")

	edgesIn, err := e.store.Follows().CountFollowers(ctx, id)
	require.NoError(t, err)
	edgesOut, err := e.store.Follows().CountFollowing(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, edgesIn, u.FollowersCount)
	assert.Equal(t, edgesOut, u.FollowingCount)
}

func TestToggleFollowTwiceRestoresCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	following, err := env.follows.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	env.assertFollowCounts(t, alice.ID, 0, 1)
	env.assertFollowCounts(t, bob.ID, 1, 0)

	notes := env.notificationsFor(t, bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationFollow, notes[0].Type)

	following, err = env.follows.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	env.assertFollowCounts(t, alice.ID, 0, 0)
	env.assertFollowCounts(t, bob.ID, 0, 0)
}

func TestFollowCounterInvariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := []*model.User{env.user(t, "u1"), env.user(t, "u2"), env.user(t, "u3")}

	ops := [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 0}, {0, 1}, {1, 0}, {2, 0}, {0, 1}}
	for _, op := range ops {
		_, err := env.follows.ToggleFollow(ctx, users[op[0]].ID, users[op[1]].ID)
		require.NoError(t, err)
	}

	for _, u := range users {
		fresh, err := env.store.Users().FindByID(ctx, u.ID)
		require.NoError(t, err)
		env.assertFollowCounts(t, u.ID, fresh.FollowersCount, fresh.FollowingCount)
	}
}

func TestToggleFollowValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	_, err := env.follows.ToggleFollow(context.Background(), alice.ID, alice.ID)
	assertCode(t, err, errors.ErrInvalidInput)
	_, err = env.follows.ToggleFollow(context.Background(), alice.ID, "ghost")
	assertCode(t, err, errors.ErrNotFound)
}

func TestFollowNotificationRespectsSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	off := false
	_, err := env.notifications.UpdateSettings(ctx, bob.ID, model.NotificationSettingsUpdate{Enabled: &off})
	require.NoError(t, err)

	_, err = env.follows.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, env.notificationsFor(t, bob.ID))
}

func TestFollowerListsAnnotateViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")

	for _, pair := range [][2]string{{bob.ID, alice.ID}, {carol.ID, alice.ID}, {alice.ID, bob.ID}} {
		_, err := env.follows.ToggleFollow(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	followers, err := env.follows.GetFollowers(ctx, alice.ID, alice.ID, Page{})
	require.NoError(t, err)
	require.Len(t, followers, 2)
	state := map[string]bool{}
	for _, f := range followers {
		state[f.Username] = f.IsFollowing
	}
	assert.Equal(t, map[string]bool{"bob": true, "carol": false}, state)

	following, err := env.follows.GetFollowing(ctx, carol.ID, bob.ID, Page{})
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "alice", following[0].Username)
	assert.True(t, following[0].IsFollowing)
}
