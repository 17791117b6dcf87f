package gormdb

import (
	"context"

	"social-backend/internal/model"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	var res []*model.Notification
	err := r.db.WithContext(ctx).Where("to_user_id = ?", userID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&res).Error
	return res, err
}

func (r *notificationRepository) DeleteForRecipient(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND to_user_id = ?", id, userID).Delete(&model.Notification{})
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepository) DeleteByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.Notification{}).Error
}

func (r *notificationRepository) DeleteByComments(ctx context.Context, commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("comment_id IN ?", commentIDs).Delete(&model.Notification{}).Error
}
