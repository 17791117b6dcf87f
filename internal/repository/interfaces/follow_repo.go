package interfaces

import (
	"context"

	"social-backend/internal/model"
)

// FollowRepository 定义了关注关系的数据库操作接口
type FollowRepository interface {
	// Create 插入关注边，已存在时返回 false
	Create(ctx context.Context, followerID, followingID string) (bool, error)
	// Delete 删除关注边，不存在时返回 false
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	// FollowedAmong 返回 targetIDs 中被 followerID 关注的集合
	FollowedAmong(ctx context.Context, followerID string, targetIDs []string) (map[string]bool, error)
	ListFollowers(ctx context.Context, userID string, offset, limit int) ([]*model.Follow, error)
	ListFollowing(ctx context.Context, userID string, offset, limit int) ([]*model.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}
