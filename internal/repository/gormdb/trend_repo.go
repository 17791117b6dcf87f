package gormdb

import (
	"context"
	"sort"
	"time"

	"social-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type trendRepository struct {
	db *gorm.DB
}

var topicConflict = []clause.Column{{Name: "topic"}}

func (r *trendRepository) AdjustPostCounts(ctx context.Context, deltas map[string]int64) error {
	topics := make([]string, 0, len(deltas))
	for t := range deltas {
		topics = append(topics, t)
	}
	// 固定顺序加锁
	sort.Strings(topics)

	db := r.db.WithContext(ctx)
	for _, topic := range topics {
		delta := deltas[topic]
		switch {
		case delta > 0:
			trend := &model.Trend{ID: newID(), Topic: topic, PostCount: delta}
			err := db.Clauses(clause.OnConflict{
				Columns: topicConflict,
				DoUpdates: clause.Assignments(map[string]interface{}{
					"post_count": gorm.Expr("trends.post_count + ?", delta),
					"updated_at": time.Now(),
				}),
			}).Create(trend).Error
			if err != nil {
				return err
			}
		case delta < 0:
			err := db.Model(&model.Trend{}).Where("topic = ?", topic).
				UpdateColumn("post_count", gorm.Expr("post_count + ?", delta)).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *trendRepository) IncrementSearch(ctx context.Context, topic string) error {
	trend := &model.Trend{ID: newID(), Topic: topic, SearchCount: 1}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: topicConflict,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"search_count": gorm.Expr("trends.search_count + ?", 1),
			"updated_at":   time.Now(),
		}),
	}).Create(trend).Error
}

func (r *trendRepository) FindByTopic(ctx context.Context, topic string) (*model.Trend, error) {
	return take[model.Trend](r.db.WithContext(ctx).Where("topic = ?", topic))
}

func (r *trendRepository) Top(ctx context.Context, limit int) ([]*model.Trend, error) {
	var trends []*model.Trend
	err := r.db.WithContext(ctx).
		Order("search_count DESC, created_at ASC, id ASC").
		Limit(limit).
		Find(&trends).Error
	return trends, err
}
