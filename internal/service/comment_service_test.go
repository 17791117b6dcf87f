package service

import (
	"context"
	"testing"

	"social-backend/internal/model"
	"social-backend/internal/service/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "first post")

	c, err := env.comments.CreateComment(ctx, post.ID, bob.ID, "nice")
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Content)
	require.NotNil(t, c.User)
	assert.Equal(t, "bob", c.User.Username)

	comments, err := env.comments.GetComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, c.ID, comments[0].ID)

	notes := env.notificationsFor(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationComment, notes[0].Type)
	require.NotNil(t, notes[0].Comment)
	assert.Equal(t, "nice", notes[0].Comment.Content)
}

func TestCreateCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	post := env.post(t, alice.ID, "hello")

	_, err := env.comments.CreateComment(ctx, post.ID, alice.ID, "   ")
	assertCode(t, err, errors.ErrInvalidInput)

	_, err = env.comments.CreateComment(ctx, "missing", alice.ID, "hi")
	assertCode(t, err, errors.ErrNotFound)

	_, err = env.comments.CreateComment(ctx, post.ID, "ghost", "hi")
	assertCode(t, err, errors.ErrNotFound)
}

func TestCreateCommentOwnPostNoNotification(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	post := env.post(t, alice.ID, "mine")

	_, err := env.comments.CreateComment(context.Background(), post.ID, alice.ID, "self reply")
	require.NoError(t, err)
	assert.Empty(t, env.notificationsFor(t, alice.ID))
}

func TestCreateCommentLinkFailureLeavesNoOrphan(t *testing.T) {
	base := newTestStore(t)
	env := newEnvWithStore(t, base)
	alice := env.user(t, "alice")
	post := env.post(t, alice.ID, "hello")

	faulty := newEnvWithStore(t, &faultyStore{Store: base, failAppendComment: true})
	_, err := faulty.comments.CreateComment(context.Background(), post.ID, alice.ID, "orphan?")
	assertCode(t, err, errors.ErrDatabase)

	var count int64
	require.NoError(t, base.DB().Model(&model.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNotificationFailureDoesNotFailComment(t *testing.T) {
	base := newTestStore(t)
	env := newEnvWithStore(t, base)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "hello")

	faulty := newEnvWithStore(t, &faultyStore{Store: base, failNotifications: true})
	c, err := faulty.comments.CreateComment(context.Background(), post.ID, bob.ID, "still works")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Empty(t, env.notificationsFor(t, alice.ID))
}

func TestCreateReplyFlattensToThread(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	post := env.post(t, alice.ID, "thread")

	top, err := env.comments.CreateComment(ctx, post.ID, bob.ID, "top")
	require.NoError(t, err)
	reply, err := env.comments.CreateReply(ctx, top.ID, carol.ID, "reply")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentComment)
	assert.Equal(t, top.ID, *reply.ParentComment)

	nested, err := env.comments.CreateReply(ctx, reply.ID, bob.ID, "nested")
	require.NoError(t, err)
	assert.Equal(t, top.ID, *nested.ParentComment)

	comments, err := env.comments.GetComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 2)
	assert.Equal(t, reply.ID, comments[0].Replies[0].ID)
	assert.Equal(t, nested.ID, comments[0].Replies[1].ID)

	// 回复的回复通知直接父评论作者
	notes := env.notificationsFor(t, carol.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationReply, notes[0].Type)
}

func TestCreateReplyValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	_, err := env.comments.CreateReply(context.Background(), "missing", alice.ID, "hi")
	assertCode(t, err, errors.ErrNotFound)
	_, err = env.comments.CreateReply(context.Background(), "missing", alice.ID, "")
	assertCode(t, err, errors.ErrInvalidInput)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	mallory := env.user(t, "mallory")
	post := env.post(t, alice.ID, "hello")

	c, err := env.comments.CreateComment(ctx, post.ID, bob.ID, "keep me")
	require.NoError(t, err)

	err = env.comments.DeleteComment(ctx, c.ID, mallory.ID)
	assertCode(t, err, errors.ErrForbidden)

	stored, err := env.store.Comments().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	// 帖子作者可以删除别人的评论
	require.NoError(t, env.comments.DeleteComment(ctx, c.ID, alice.ID))
	stored, err = env.store.Comments().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteTopLevelCommentCascadesReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "hello")

	top, err := env.comments.CreateComment(ctx, post.ID, bob.ID, "top")
	require.NoError(t, err)
	reply, err := env.comments.CreateReply(ctx, top.ID, alice.ID, "reply")
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(ctx, top.ID, bob.ID))

	stored, err := env.store.Comments().FindByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	comments, err := env.comments.GetComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	// bob 的回复通知随回复一起删除
	assert.Empty(t, env.notificationsFor(t, bob.ID))
}

func TestDeleteReplyUnlinksFromParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "hello")

	top, err := env.comments.CreateComment(ctx, post.ID, bob.ID, "top")
	require.NoError(t, err)
	reply, err := env.comments.CreateReply(ctx, top.ID, alice.ID, "reply")
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(ctx, reply.ID, alice.ID))

	comments, err := env.comments.GetComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Empty(t, comments[0].Replies)
}

func TestToggleLikeCommentIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "hello")
	c, err := env.comments.CreateComment(ctx, post.ID, alice.ID, "like me")
	require.NoError(t, err)

	liked, err := env.comments.ToggleLikeComment(ctx, c.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = env.comments.ToggleLikeComment(ctx, c.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	has, err := env.store.Comments().HasLike(ctx, c.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, has)
	assert.Empty(t, env.notificationsFor(t, alice.ID))

	_, err = env.comments.ToggleLikeComment(ctx, "missing", bob.ID)
	assertCode(t, err, errors.ErrNotFound)
}
