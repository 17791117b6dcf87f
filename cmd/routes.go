package main

import (
	"net/http"

	"social-backend/internal/api/comment"
	"social-backend/internal/api/conversation"
	"social-backend/internal/api/follow"
	"social-backend/internal/api/notification"
	"social-backend/internal/api/post"
	"social-backend/internal/api/trend"
	"social-backend/internal/api/user"
	"social-backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// handlers 汇总所有 HTTP 处理器
type handlers struct {
	auth          *user.AuthHandler
	profile       *user.ProfileHandler
	posts         *post.PostHandler
	comments      *comment.CommentHandler
	follows       *follow.FollowHandler
	conversations *conversation.ConversationHandler
	notifications *notification.NotificationHandler
	trends        *trend.TrendHandler
}

// registerRoutes 注册 /api 下的业务路由以及健康检查和指标
// identity 只校验令牌，auth 还要求本地用户已同步
func registerRoutes(r *gin.Engine, h handlers, identity, auth gin.HandlerFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// 用户
	users := api.Group("/users")
	{
		users.POST("/sync", identity, h.auth.SyncUser)
		users.GET("/profile/:username", h.profile.GetProfile)

		users.Use(auth)
		users.GET("/me", h.auth.GetCurrentUser)
		users.PUT("/profile", h.profile.UpdateProfile)
		users.GET("/:id", h.profile.GetUserByID)
		users.GET("/:id/followers", h.follows.GetFollowers)
		users.GET("/:id/following", h.follows.GetFollowing)
		users.POST("/:id/follow", h.follows.ToggleFollow)
		users.POST("/follow/:targetUserId", h.follows.ToggleFollow)
	}

	// 帖子
	posts := api.Group("/posts")
	{
		posts.GET("", h.posts.GetPosts)
		posts.GET("/:postId", h.posts.GetPost)
		posts.GET("/:postId/comments", h.comments.GetComments)
		posts.GET("/user/:username", h.posts.GetUserPosts)
		posts.GET("/user/:username/reposts", h.posts.GetUserReposts)
		posts.GET("/hashtag/:hashtag", h.posts.SearchByHashtag)

		posts.Use(auth)
		posts.POST("", h.posts.CreatePost)
		posts.DELETE("/:postId", h.posts.DeletePost)
		posts.POST("/:postId/like", h.posts.LikePost)
		posts.POST("/:postId/repost", h.posts.RepostPost)
		posts.POST("/:postId/quote", h.posts.QuotePost)
		posts.POST("/:postId/bookmark", h.posts.BookmarkPost)
		posts.GET("/user/:username/likes", h.posts.GetUserLikedPosts)
		posts.GET("/user/:username/bookmarks", h.posts.GetUserBookmarks)
	}

	// 评论
	comments := api.Group("/comments")
	{
		comments.GET("/post/:postId", h.comments.GetComments)

		comments.Use(auth)
		comments.POST("/post/:postId", h.comments.CreateComment)
		comments.DELETE("/:commentId", h.comments.DeleteComment)
		comments.POST("/:commentId/like", h.comments.ToggleLike)
		comments.POST("/:commentId/reply", h.comments.CreateReply)
	}

	// 私信
	conversations := api.Group("/conversations", auth)
	{
		conversations.GET("", h.conversations.GetConversations)
		conversations.GET("/user/:otherUserId", h.conversations.GetOrCreateConversation)
		conversations.GET("/:conversationId/messages", h.conversations.GetMessages)
		conversations.POST("/:conversationId/messages", h.conversations.SendMessage)
		conversations.PATCH("/:conversationId/read", h.conversations.MarkAsRead)
		conversations.DELETE("/:conversationId", h.conversations.DeleteConversation)
	}

	// 通知
	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("", h.notifications.GetNotifications)
		notifications.GET("/settings", h.notifications.GetSettings)
		notifications.PUT("/settings", h.notifications.UpdateSettings)
		notifications.DELETE("/:notificationId", h.notifications.DeleteNotification)
	}

	// 趋势
	trends := api.Group("/trends", auth)
	{
		trends.GET("", h.trends.GetTrends)
		trends.POST("", h.trends.RecordSearch)
	}
}
