package interfaces

import (
	"context"

	"social-backend/internal/model"
)

// UserRepository 定义了用户相关的数据库操作接口。查询不到时返回 nil, nil
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) error
	UpdateNotificationSettings(ctx context.Context, id string, settings model.NotificationSettings) error
	// AdjustFollowCounts 按增量更新 follower 的 followingCount 和 following 的 followersCount
	AdjustFollowCounts(ctx context.Context, followerID, followingID string, delta int64) error
	SetFollowCounts(ctx context.Context, id string, followers, following int64) error
	ListIDs(ctx context.Context, offset, limit int) ([]string, error)
}
