package interfaces

import (
	"context"
	"time"

	"social-backend/internal/model"
)

// ConversationRepository 定义了会话相关的数据库操作接口
type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	FindByParticipants(ctx context.Context, a, b string) (*model.Conversation, error)
	// CreateIfAbsent 参与者对已存在时不插入并返回 false
	CreateIfAbsent(ctx context.Context, conv *model.Conversation) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Conversation, error)
	ListIDs(ctx context.Context, offset, limit int) ([]string, error)
	SetLastMessage(ctx context.Context, id string, last model.LastMessage) error
	Delete(ctx context.Context, id string) error

	InitUnread(ctx context.Context, id string, userIDs []string) error
	// IncrementUnread 对单个参与者计数做原子增量更新
	IncrementUnread(ctx context.Context, id, userID string, delta int64) error
	SetUnread(ctx context.Context, id, userID string, count int64) error
	UnreadCounts(ctx context.Context, id string) (model.UnreadCounts, error)
	// UnreadFor 批量读取 userID 在多个会话中的未读数
	UnreadFor(ctx context.Context, ids []string, userID string) (map[string]int64, error)
}

// MessageRepository 定义了消息相关的数据库操作接口
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// ListNewestFirst 按创建时间倒序分页
	ListNewestFirst(ctx context.Context, conversationID string, offset, limit int) ([]*model.Message, error)
	Count(ctx context.Context, conversationID string) (int64, error)
	CountUnread(ctx context.Context, conversationID, receiverID string) (int64, error)
	MarkRead(ctx context.Context, conversationID, receiverID string, at time.Time) (int64, error)
	DeleteByConversation(ctx context.Context, conversationID string) error
}
