package interfaces

import (
	"context"

	"social-backend/internal/model"
)

// NotificationRepository 定义了通知相关的数据库操作接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]*model.Notification, error)
	// DeleteForRecipient 仅删除接收者为 userID 的通知
	DeleteForRecipient(ctx context.Context, id, userID string) (bool, error)
	DeleteByPost(ctx context.Context, postID string) error
	DeleteByComments(ctx context.Context, commentIDs []string) error
}
