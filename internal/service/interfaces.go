package service

import (
	"context"

	"social-backend/internal/model"
)

type CommentServiceInterface interface {
	GetComments(ctx context.Context, postID string) ([]*model.CommentView, error)
	CreateComment(ctx context.Context, postID, authorID, content string) (*model.CommentView, error)
	CreateReply(ctx context.Context, commentID, authorID, content string) (*model.CommentView, error)
	DeleteComment(ctx context.Context, commentID, requesterID string) error
	ToggleLikeComment(ctx context.Context, commentID, userID string) (bool, error)
}

type ConversationServiceInterface interface {
	GetConversations(ctx context.Context, userID string) ([]*model.ConversationListItem, error)
	GetOrCreateConversation(ctx context.Context, userID, otherID string) (*model.ConversationView, error)
	GetMessages(ctx context.Context, conversationID, requesterID string, page Page) (*model.MessagePage, error)
	SendMessage(ctx context.Context, conversationID, senderID, content string) (*model.MessageView, error)
	MarkAsRead(ctx context.Context, conversationID, userID string) error
	DeleteConversation(ctx context.Context, conversationID, requesterID string) error
}

type FollowServiceInterface interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error)
	GetFollowers(ctx context.Context, userID, viewerID string, page Page) ([]*model.FollowUserView, error)
	GetFollowing(ctx context.Context, userID, viewerID string, page Page) ([]*model.FollowUserView, error)
}

type PostServiceInterface interface {
	GetPosts(ctx context.Context, page Page) (*model.PostPage, error)
	GetPost(ctx context.Context, postID string) (*model.PostView, error)
	GetUserPosts(ctx context.Context, username string, page Page) (*model.PostPage, error)
	GetUserReposts(ctx context.Context, username string, page Page) (*model.PostPage, error)
	GetUserLikedPosts(ctx context.Context, username, viewerID string, page Page) (*model.PostPage, error)
	GetUserBookmarks(ctx context.Context, username, viewerID string, page Page) (*model.PostPage, error)
	SearchByHashtag(ctx context.Context, tag string, page Page) (*model.PostPage, error)
	CreatePost(ctx context.Context, userID string, in CreatePostInput) (*model.PostView, error)
	DeletePost(ctx context.Context, postID, requesterID string) error
	LikePost(ctx context.Context, postID, userID string) (bool, error)
	BookmarkPost(ctx context.Context, postID, userID string) (bool, error)
	RepostPost(ctx context.Context, postID, userID string) (bool, error)
	QuotePost(ctx context.Context, postID, userID, content string) (*model.PostView, error)
}

type TrendServiceInterface interface {
	RecordSearch(ctx context.Context, term string) error
	GetTrends(ctx context.Context) ([]*model.Trend, error)
}

type NotificationServiceInterface interface {
	GetNotifications(ctx context.Context, userID string) ([]*model.NotificationView, error)
	DeleteNotification(ctx context.Context, id, userID string) error
	GetSettings(ctx context.Context, userID string) (model.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID string, update model.NotificationSettingsUpdate) (model.NotificationSettings, error)
}

type UserServiceInterface interface {
	SyncUser(ctx context.Context, in SyncUserInput) (*model.User, bool, error)
	ResolveExternalID(ctx context.Context, externalID string) (string, error)
	GetCurrentUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserProfile(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error)
}

// 确保各服务实现了对应接口
var (
	_ CommentServiceInterface      = (*CommentService)(nil)
	_ ConversationServiceInterface = (*ConversationService)(nil)
	_ FollowServiceInterface       = (*FollowService)(nil)
	_ PostServiceInterface         = (*PostService)(nil)
	_ TrendServiceInterface        = (*TrendService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
	_ UserServiceInterface         = (*UserService)(nil)
)
