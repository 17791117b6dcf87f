package cache

import (
	"context"

	"social-backend/internal/model"
)

// UserCache 用户展示字段缓存，供读模型填充时批量查询
type UserCache interface {
	// GetMany 返回命中的用户，未命中的 ID 由调用方回源
	GetMany(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
	SetMany(ctx context.Context, users []*model.UserSummary) error
	Invalidate(ctx context.Context, id string) error
}
