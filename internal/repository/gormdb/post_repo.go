package gormdb

import (
	"context"

	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postRepository struct {
	db *gorm.DB
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = newID()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return take[model.Post](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *postRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*model.Post
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindRepostShell(ctx context.Context, userID, originalID string) (*model.Post, error) {
	return take[model.Post](r.db.WithContext(ctx).
		Where("user_id = ? AND original_post_id = ? AND is_repost = ?", userID, originalID, true))
}

func (r *postRepository) FindByOriginal(ctx context.Context, originalID string) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).Where("original_post_id = ?", originalID).Find(&posts).Error
	return posts, err
}

func postFilterScope(f interfaces.PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != "" {
			db = db.Where("posts.user_id = ?", f.UserID)
		}
		if f.IsRepost != nil {
			db = db.Where("posts.is_repost = ?", *f.IsRepost)
		}
		if f.MemberKind != "" {
			db = db.Joins("JOIN post_members pm ON pm.post_id = posts.id AND pm.kind = ? AND pm.user_id = ?",
				f.MemberKind, f.MemberUserID)
		}
		if f.Hashtag != "" {
			db = db.Joins("JOIN post_hashtags ph ON ph.post_id = posts.id AND ph.topic = ?", f.Hashtag)
		}
		return db
	}
}

func (r *postRepository) List(ctx context.Context, f interfaces.PostFilter, offset, limit int) ([]*model.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Scopes(postFilterScope(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	err := r.db.WithContext(ctx).Scopes(postFilterScope(f)).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *postRepository) AddMember(ctx context.Context, postID string, kind model.PostMemberKind, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.PostMember{PostID: postID, Kind: kind, UserID: userID})
	return res.RowsAffected > 0, res.Error
}

func (r *postRepository) RemoveMember(ctx context.Context, postID string, kind model.PostMemberKind, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND kind = ? AND user_id = ?", postID, kind, userID).
		Delete(&model.PostMember{})
	return res.RowsAffected > 0, res.Error
}

func (r *postRepository) HasMember(ctx context.Context, postID string, kind model.PostMemberKind, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.PostMember{}).
		Where("post_id = ? AND kind = ? AND user_id = ?", postID, kind, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *postRepository) MembersOf(ctx context.Context, postIDs []string, kind model.PostMemberKind) (map[string][]string, error) {
	if len(postIDs) == 0 {
		return map[string][]string{}, nil
	}
	var rows []model.PostMember
	err := r.db.WithContext(ctx).
		Where("post_id IN ? AND kind = ?", postIDs, kind).
		Order("created_at, user_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupIDs(rows, func(m model.PostMember) (string, string) { return m.PostID, m.UserID }), nil
}

func (r *postRepository) AppendComment(ctx context.Context, postID, commentID string) error {
	return r.db.WithContext(ctx).Create(&model.PostComment{PostID: postID, CommentID: commentID}).Error
}

func (r *postRepository) RemoveComment(ctx context.Context, postID, commentID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND comment_id = ?", postID, commentID).
		Delete(&model.PostComment{}).Error
}

func (r *postRepository) CommentIDsOf(ctx context.Context, postIDs []string) (map[string][]string, error) {
	if len(postIDs) == 0 {
		return map[string][]string{}, nil
	}
	var rows []model.PostComment
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at, comment_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupIDs(rows, func(c model.PostComment) (string, string) { return c.PostID, c.CommentID }), nil
}

func (r *postRepository) AddHashtags(ctx context.Context, postID string, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(topics))
	rows := make([]model.PostHashtag, 0, len(topics))
	for _, t := range topics {
		if seen[t] {
			continue
		}
		seen[t] = true
		rows = append(rows, model.PostHashtag{PostID: postID, Topic: t})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *postRepository) DeleteRelations(ctx context.Context, postID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("post_id = ?", postID).Delete(&model.PostMember{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", postID).Delete(&model.PostComment{}).Error; err != nil {
		return err
	}
	return db.Where("post_id = ?", postID).Delete(&model.PostHashtag{}).Error
}
