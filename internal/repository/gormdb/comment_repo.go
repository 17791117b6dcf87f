package gormdb

import (
	"context"

	"social-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commentRepository struct {
	db *gorm.DB
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = newID()
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	return take[model.Comment](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *commentRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var comments []*model.Comment
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error
	return comments, err
}

func (r *commentRepository) IDsByPost(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("comment_id IN ?", ids).Delete(&model.CommentLike{}).Error; err != nil {
		return err
	}
	if err := db.Where("comment_id IN ? OR reply_id IN ?", ids, ids).Delete(&model.CommentReply{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&model.Comment{}).Error
}

func (r *commentRepository) AppendReply(ctx context.Context, parentID, replyID string) error {
	return r.db.WithContext(ctx).Create(&model.CommentReply{CommentID: parentID, ReplyID: replyID}).Error
}

func (r *commentRepository) RemoveReply(ctx context.Context, parentID, replyID string) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ? AND reply_id = ?", parentID, replyID).
		Delete(&model.CommentReply{}).Error
}

func (r *commentRepository) ReplyIDsOf(ctx context.Context, parentIDs []string) (map[string][]string, error) {
	if len(parentIDs) == 0 {
		return map[string][]string{}, nil
	}
	var rows []model.CommentReply
	err := r.db.WithContext(ctx).
		Where("comment_id IN ?", parentIDs).
		Order("created_at, reply_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupIDs(rows, func(c model.CommentReply) (string, string) { return c.CommentID, c.ReplyID }), nil
}

func (r *commentRepository) AddLike(ctx context.Context, commentID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CommentLike{CommentID: commentID, UserID: userID})
	return res.RowsAffected > 0, res.Error
}

func (r *commentRepository) RemoveLike(ctx context.Context, commentID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&model.CommentLike{})
	return res.RowsAffected > 0, res.Error
}

func (r *commentRepository) HasLike(ctx context.Context, commentID, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *commentRepository) LikesOf(ctx context.Context, commentIDs []string) (map[string][]string, error) {
	if len(commentIDs) == 0 {
		return map[string][]string{}, nil
	}
	var rows []model.CommentLike
	err := r.db.WithContext(ctx).
		Where("comment_id IN ?", commentIDs).
		Order("created_at, user_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupIDs(rows, func(l model.CommentLike) (string, string) { return l.CommentID, l.UserID }), nil
}
