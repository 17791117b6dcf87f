package interfaces

import (
	"context"

	"social-backend/internal/model"
)

// CommentRepository 定义了评论相关的数据库操作接口
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Comment, error)
	IDsByPost(ctx context.Context, postID string) ([]string, error)
	// Delete 删除评论及其点赞和回复链接
	Delete(ctx context.Context, ids ...string) error

	AppendReply(ctx context.Context, parentID, replyID string) error
	RemoveReply(ctx context.Context, parentID, replyID string) error
	ReplyIDsOf(ctx context.Context, parentIDs []string) (map[string][]string, error)

	AddLike(ctx context.Context, commentID, userID string) (bool, error)
	RemoveLike(ctx context.Context, commentID, userID string) (bool, error)
	HasLike(ctx context.Context, commentID, userID string) (bool, error)
	LikesOf(ctx context.Context, commentIDs []string) (map[string][]string, error)
}
