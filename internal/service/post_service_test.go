package service

import (
	"context"
	stderrors "errors"
	"testing"

	"social-backend/internal/model"
	"social-backend/internal/service/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTrendSymmetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.post(t, alice.ID, "already #foo")

	beforeFoo := env.trendCount(t, "#foo")
	beforeBar := env.trendCount(t, "#bar")

	p := env.post(t, alice.ID, "hello #foo #bar")
	assert.Equal(t, beforeFoo+1, env.trendCount(t, "#foo"))
	assert.Equal(t, beforeBar+1, env.trendCount(t, "#bar"))

	require.NoError(t, env.posts.DeletePost(ctx, p.ID, alice.ID))
	assert.Equal(t, beforeFoo, env.trendCount(t, "#foo"))
	assert.Equal(t, beforeBar, env.trendCount(t, "#bar"))
}

func TestPostLifecycleScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	p := env.post(t, a.ID, "Loving #rustlang today")
	assert.EqualValues(t, 1, env.trendCount(t, "#rustlang"))

	c, err := env.comments.CreateComment(ctx, p.ID, b.ID, "same")
	require.NoError(t, err)

	view, err := env.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, view.Comments, 1)

	notes := env.notificationsFor(t, a.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationComment, notes[0].Type)

	require.NoError(t, env.posts.DeletePost(ctx, p.ID, a.ID))
	assert.EqualValues(t, 0, env.trendCount(t, "#rustlang"))

	stored, err := env.store.Comments().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, env.notificationsFor(t, a.ID))
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	_, err := env.posts.CreatePost(context.Background(), alice.ID, CreatePostInput{Content: "  "})
	assertCode(t, err, errors.ErrInvalidInput)
	_, err = env.posts.CreatePost(context.Background(), "ghost", CreatePostInput{Content: "hi"})
	assertCode(t, err, errors.ErrNotFound)
}

func TestCreatePostWithImage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	img := []byte("not really an image")

	env.media.On("Upload", mock.Anything, img, "image/png").Return("https://cdn.example.com/a.png", nil).Once()

	p, err := env.posts.CreatePost(context.Background(), alice.ID, CreatePostInput{Image: img, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", p.Image)
	env.media.AssertExpectations(t)
}

func TestCreatePostUploadFailureCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	env.media.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", stderrors.New("bucket gone")).Once()

	_, err := env.posts.CreatePost(context.Background(), alice.ID, CreatePostInput{
		Content:     "with #pic",
		Image:       []byte{1, 2, 3},
		ContentType: "image/jpeg",
	})
	assertCode(t, err, errors.ErrThirdParty)

	var count int64
	require.NoError(t, env.store.DB().Model(&model.Post{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, env.trendCount(t, "#pic"))
}

func TestDeletePostOnlyAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	p := env.post(t, alice.ID, "mine")

	assertCode(t, env.posts.DeletePost(ctx, p.ID, bob.ID), errors.ErrForbidden)
	assertCode(t, env.posts.DeletePost(ctx, "missing", bob.ID), errors.ErrNotFound)
}

func TestLikePostToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	p := env.post(t, alice.ID, "like me")

	liked, err := env.posts.LikePost(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	view, err := env.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, view.Likes)

	liked, err = env.posts.LikePost(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	view, err = env.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Likes)

	// 只有从未点赞到点赞时发通知
	notes := env.notificationsFor(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationLike, notes[0].Type)
}

func TestRepostToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	p := env.post(t, alice.ID, "share me")

	_, err := env.posts.RepostPost(ctx, p.ID, alice.ID)
	assertCode(t, err, errors.ErrInvalidInput)

	reposted, err := env.posts.RepostPost(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, reposted)

	shell, err := env.store.Posts().FindRepostShell(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, shell)

	view, err := env.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, view.RepostedBy, 1)
	assert.Equal(t, "bob", view.RepostedBy[0].Username)

	reposts, err := env.posts.GetUserReposts(ctx, "bob", Page{})
	require.NoError(t, err)
	require.Len(t, reposts.Posts, 1)
	require.NotNil(t, reposts.Posts[0].OriginalPost)
	assert.Equal(t, p.ID, reposts.Posts[0].OriginalPost.ID)

	reposted, err = env.posts.RepostPost(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, reposted)

	shell, err = env.store.Posts().FindRepostShell(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	assert.Nil(t, shell)

	view, err = env.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, view.RepostedBy)
}

func TestDeleteOriginalRemovesRepostShells(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	p := env.post(t, alice.ID, "original")

	_, err := env.posts.RepostPost(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, env.posts.DeletePost(ctx, p.ID, alice.ID))

	var count int64
	require.NoError(t, env.store.DB().Model(&model.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestQuotePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	p := env.post(t, alice.ID, "quotable")

	q, err := env.posts.QuotePost(ctx, p.ID, bob.ID, "so true #Go #go")
	require.NoError(t, err)
	assert.False(t, q.IsRepost)
	require.NotNil(t, q.OriginalPost)
	assert.Equal(t, p.ID, q.OriginalPost.ID)
	assert.EqualValues(t, 2, env.trendCount(t, "#go"))

	view, err := env.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, view.QuotedBy)

	notes := env.notificationsFor(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationQuote, notes[0].Type)

	require.NoError(t, env.posts.DeletePost(ctx, q.ID, bob.ID))
	assert.EqualValues(t, 0, env.trendCount(t, "#go"))
	view, err = env.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, view.QuotedBy)

	_, err = env.posts.QuotePost(ctx, p.ID, bob.ID, "")
	assertCode(t, err, errors.ErrInvalidInput)
}

func TestBookmarksAndLikesVisibleToOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	p := env.post(t, alice.ID, "save me")

	saved, err := env.posts.BookmarkPost(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	_, err = env.posts.LikePost(ctx, p.ID, bob.ID)
	require.NoError(t, err)

	page, err := env.posts.GetUserBookmarks(ctx, "bob", bob.ID, Page{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, p.ID, page.Posts[0].ID)

	page, err = env.posts.GetUserLikedPosts(ctx, "bob", bob.ID, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = env.posts.GetUserBookmarks(ctx, "bob", alice.ID, Page{})
	assertCode(t, err, errors.ErrForbidden)
	_, err = env.posts.GetUserLikedPosts(ctx, "bob", alice.ID, Page{})
	assertCode(t, err, errors.ErrForbidden)
}

func TestPostListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	first := env.post(t, alice.ID, "one #Tag")
	env.post(t, alice.ID, "two")
	env.post(t, bob.ID, "three #tag")
	_, err := env.posts.RepostPost(ctx, first.ID, bob.ID)
	require.NoError(t, err)

	all, err := env.posts.GetPosts(ctx, Page{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Total)
	assert.Len(t, all.Posts, 3)
	assert.True(t, all.HasMore)

	mine, err := env.posts.GetUserPosts(ctx, "bob", Page{})
	require.NoError(t, err)
	require.Len(t, mine.Posts, 1)
	assert.Equal(t, "three #tag", mine.Posts[0].Content)

	tagged, err := env.posts.SearchByHashtag(ctx, "#TAG", Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, tagged.Total)

	_, err = env.posts.GetUserPosts(ctx, "nobody", Page{})
	assertCode(t, err, errors.ErrNotFound)
}
