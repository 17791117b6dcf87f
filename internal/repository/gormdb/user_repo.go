package gormdb

import (
	"context"
	"fmt"

	"social-backend/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return take[model.User](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return take[model.User](r.db.WithContext(ctx).Where("external_id = ?", externalID))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return take[model.User](r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) error {
	cols := update.Columns()
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(cols).Error
}

func (r *userRepository) UpdateNotificationSettings(ctx context.Context, id string, s model.NotificationSettings) error {
	// map 形式才会写入 false 值
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"notify_enabled": s.Enabled,
		"notify_follow":  s.Follow,
		"notify_like":    s.Like,
		"notify_comment": s.Comment,
		"notify_repost":  s.Repost,
		"notify_reply":   s.Reply,
		"notify_quote":   s.Quote,
	}).Error
}

func (r *userRepository) AdjustFollowCounts(ctx context.Context, followerID, followingID string, delta int64) error {
	type update struct {
		id     string
		column string
	}
	updates := []update{{followerID, "following_count"}, {followingID, "followers_count"}}
	// 固定按 ID 顺序加锁，避免 A->B 与 B->A 同时切换时死锁
	if followingID < followerID {
		updates[0], updates[1] = updates[1], updates[0]
	}

	for _, u := range updates {
		res := r.db.WithContext(ctx).Model(&model.User{}).
			Where("id = ?", u.id).
			UpdateColumn(u.column, gorm.Expr(u.column+" + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s not found", u.id)
		}
	}
	return nil
}

func (r *userRepository) SetFollowCounts(ctx context.Context, id string, followers, following int64) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"followers_count": followers,
		"following_count": following,
	}).Error
}

func (r *userRepository) ListIDs(ctx context.Context, offset, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.User{}).Order("id").Offset(offset).Limit(limit).Pluck("id", &ids).Error
	return ids, err
}
