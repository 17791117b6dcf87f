package service

import (
	"context"
	"sort"
	"strings"

	"social-backend/internal/metrics"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

// CommentService 处理评论和回复，评论与帖子/父评论的链接在同一事务内维护
type CommentService struct {
	store    interfaces.Store
	notifier *NotificationService
	hydrator *Hydrator
}

func NewCommentService(store interfaces.Store, notifier *NotificationService, hydrator *Hydrator) *CommentService {
	return &CommentService{store: store, notifier: notifier, hydrator: hydrator}
}

func (s *CommentService) requireComment(ctx context.Context, repo interfaces.CommentRepository, id string) (*model.Comment, error) {
	comment, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load comment", err)
	}
	if comment == nil {
		return nil, errors.New(errors.ErrNotFound, "Comment not found")
	}
	return comment, nil
}

// GetComments 返回帖子的顶层评论（新的在前），回复按时间正序
func (s *CommentService) GetComments(ctx context.Context, postID string) ([]*model.CommentView, error) {
	if _, err := requirePost(ctx, s.store.Posts(), postID); err != nil {
		return nil, err
	}

	links, err := s.store.Posts().CommentIDsOf(ctx, []string{postID})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load comments", err)
	}
	comments, err := s.store.Comments().FindByIDs(ctx, links[postID])
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load comments", err)
	}

	top := comments[:0]
	for _, c := range comments {
		if c.Kind() == model.TopLevelComment {
			top = append(top, c)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].CreatedAt.Equal(top[j].CreatedAt) {
			return top[i].ID > top[j].ID
		}
		return top[i].CreatedAt.After(top[j].CreatedAt)
	})

	return s.hydrator.Comments(ctx, top)
}

// CreateComment 创建评论并追加到帖子的评论列表
func (s *CommentService) CreateComment(ctx context.Context, postID, authorID, content string) (*model.CommentView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "Comment content is required")
	}
	if _, err := requireUser(ctx, s.store.Users(), authorID); err != nil {
		return nil, err
	}
	post, err := requirePost(ctx, s.store.Posts(), postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{UserID: authorID, PostID: postID, Content: content}
	err = runTx(ctx, s.store, "create comment", func(tx interfaces.Store) error {
		if err := tx.Comments().Create(ctx, comment); err != nil {
			return err
		}
		return tx.Posts().AppendComment(ctx, postID, comment.ID)
	})
	if err != nil {
		return nil, err
	}
	util.Logger.Info("评论创建成功", zap.String("comment_id", comment.ID), zap.String("post_id", postID))

	if post.UserID != authorID {
		s.notifier.Notify(ctx, NotificationRequest{
			From:      authorID,
			To:        post.UserID,
			Type:      model.NotificationComment,
			PostID:    strPtr(postID),
			CommentID: strPtr(comment.ID),
		})
	}

	views, err := s.hydrator.Comments(ctx, []*model.Comment{comment})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// CreateReply 回复评论。回复的回复挂到所在讨论串的顶层评论下，只保留一层嵌套
func (s *CommentService) CreateReply(ctx context.Context, commentID, authorID, content string) (*model.CommentView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "Reply content is required")
	}
	if _, err := requireUser(ctx, s.store.Users(), authorID); err != nil {
		return nil, err
	}
	parent, err := s.requireComment(ctx, s.store.Comments(), commentID)
	if err != nil {
		return nil, err
	}
	root := parent
	if parent.Kind() == model.ReplyComment {
		if root, err = s.requireComment(ctx, s.store.Comments(), parent.ThreadID()); err != nil {
			return nil, err
		}
	}
	if root.PostID == "" {
		return nil, errors.New(errors.ErrNotFound, "Post not found")
	}
	if _, err := requirePost(ctx, s.store.Posts(), root.PostID); err != nil {
		return nil, err
	}

	reply := &model.Comment{
		UserID:          authorID,
		PostID:          root.PostID,
		Content:         content,
		ParentCommentID: strPtr(root.ID),
	}
	err = runTx(ctx, s.store, "create reply", func(tx interfaces.Store) error {
		if err := tx.Comments().Create(ctx, reply); err != nil {
			return err
		}
		return tx.Comments().AppendReply(ctx, root.ID, reply.ID)
	})
	if err != nil {
		return nil, err
	}
	util.Logger.Info("回复创建成功", zap.String("reply_id", reply.ID), zap.String("comment_id", root.ID))

	if parent.UserID != authorID {
		s.notifier.Notify(ctx, NotificationRequest{
			From:      authorID,
			To:        parent.UserID,
			Type:      model.NotificationReply,
			PostID:    strPtr(root.PostID),
			CommentID: strPtr(reply.ID),
		})
	}

	views, err := s.hydrator.Comments(ctx, []*model.Comment{reply})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// DeleteComment 评论作者或帖子作者可删除。删除顶层评论时一并删除其回复
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID string) error {
	comment, err := s.requireComment(ctx, s.store.Comments(), commentID)
	if err != nil {
		return err
	}
	post, err := requirePost(ctx, s.store.Posts(), comment.PostID)
	if err != nil {
		return err
	}
	if comment.UserID != requesterID && post.UserID != requesterID {
		return errors.New(errors.ErrForbidden, "You can only delete your own comments or comments on your posts")
	}

	err = runTx(ctx, s.store, "delete comment", func(tx interfaces.Store) error {
		ids := []string{comment.ID}
		switch comment.Kind() {
		case model.TopLevelComment:
			replies, err := tx.Comments().ReplyIDsOf(ctx, []string{comment.ID})
			if err != nil {
				return err
			}
			ids = append(ids, replies[comment.ID]...)
			if err := tx.Posts().RemoveComment(ctx, comment.PostID, comment.ID); err != nil {
				return err
			}
		case model.ReplyComment:
			if err := tx.Comments().RemoveReply(ctx, *comment.ParentCommentID, comment.ID); err != nil {
				return err
			}
		}
		if err := tx.Comments().Delete(ctx, ids...); err != nil {
			return err
		}
		return tx.Notifications().DeleteByComments(ctx, ids)
	})
	if err != nil {
		return err
	}

	util.Logger.Info("评论已删除", zap.String("comment_id", commentID), zap.String("requester", requesterID))
	return nil
}

// ToggleLikeComment 切换点赞，返回切换后是否处于点赞状态。评论点赞不发通知
func (s *CommentService) ToggleLikeComment(ctx context.Context, commentID, userID string) (bool, error) {
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return false, err
	}
	if _, err := s.requireComment(ctx, s.store.Comments(), commentID); err != nil {
		return false, err
	}

	var liked bool
	err := runTx(ctx, s.store, "toggle comment like", func(tx interfaces.Store) error {
		removed, err := tx.Comments().RemoveLike(ctx, commentID, userID)
		if err != nil || removed {
			return err
		}
		liked, err = tx.Comments().AddLike(ctx, commentID, userID)
		return err
	})
	if err != nil {
		return false, err
	}

	metrics.Toggle("comment_like", liked)
	return liked, nil
}
