package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"social-backend/internal/api/comment"
	"social-backend/internal/api/conversation"
	"social-backend/internal/api/follow"
	"social-backend/internal/api/notification"
	"social-backend/internal/api/post"
	"social-backend/internal/api/trend"
	"social-backend/internal/api/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers{
		auth:          user.NewAuthHandler(nil),
		profile:       user.NewProfileHandler(nil),
		posts:         post.NewPostHandler(nil),
		comments:      comment.NewCommentHandler(nil),
		follows:       follow.NewFollowHandler(nil),
		conversations: conversation.NewConversationHandler(nil),
		notifications: notification.NewNotificationHandler(nil),
		trends:        trend.NewTrendHandler(nil),
	}
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	registerRoutes(r, h, deny, deny)
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := testRouter()

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"GET /metrics",
		"POST /api/users/sync",
		"GET /api/users/me",
		"GET /api/users/profile/:username",
		"PUT /api/users/profile",
		"POST /api/users/:id/follow",
		"POST /api/users/follow/:targetUserId",
		"GET /api/users/:id/followers",
		"GET /api/posts",
		"POST /api/posts",
		"GET /api/posts/:postId/comments",
		"POST /api/posts/:postId/quote",
		"GET /api/posts/hashtag/:hashtag",
		"GET /api/posts/user/:username/bookmarks",
		"POST /api/comments/:commentId/reply",
		"DELETE /api/comments/:commentId",
		"GET /api/conversations/user/:otherUserId",
		"PATCH /api/conversations/:conversationId/read",
		"PUT /api/notifications/settings",
		"POST /api/trends",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := testRouter()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/conversations"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodGet, "/api/trends"},
		{http.MethodPost, "/api/users/sync"},
		{http.MethodPost, "/api/comments/post/p1"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestHealthz(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
