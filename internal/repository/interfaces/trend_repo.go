package interfaces

import (
	"context"

	"social-backend/internal/model"
)

// TrendRepository 定义了话题统计的数据库操作接口
type TrendRepository interface {
	// AdjustPostCounts 按话题增量更新 postCount，正增量时不存在则插入
	AdjustPostCounts(ctx context.Context, deltas map[string]int64) error
	IncrementSearch(ctx context.Context, topic string) error
	FindByTopic(ctx context.Context, topic string) (*model.Trend, error)
	Top(ctx context.Context, limit int) ([]*model.Trend, error)
}
