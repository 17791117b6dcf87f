package service

import (
	"context"

	"social-backend/internal/metrics"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

const notificationListLimit = 100

// PolicyFilter 通知策略过滤，决定是否为接收者创建某类通知
type PolicyFilter interface {
	ShouldNotify(ctx context.Context, recipientID string, t model.NotificationType) bool
}

// SettingsPolicy 按用户的通知设置过滤，查询失败时不发送
type SettingsPolicy struct {
	users interfaces.UserRepository
}

func NewSettingsPolicy(users interfaces.UserRepository) *SettingsPolicy {
	return &SettingsPolicy{users: users}
}

func (p *SettingsPolicy) ShouldNotify(ctx context.Context, recipientID string, t model.NotificationType) bool {
	user, err := p.users.FindByID(ctx, recipientID)
	if err != nil {
		util.Logger.Warn("检查通知设置失败", zap.String("user_id", recipientID), zap.Error(err))
		return false
	}
	if user == nil {
		return false
	}
	return user.NotificationSettings.Allows(t)
}

// NotificationRequest 一次通知请求
type NotificationRequest struct {
	From      string
	To        string
	Type      model.NotificationType
	PostID    *string
	CommentID *string
}

// NotificationService 处理通知的创建、查询和设置
type NotificationService struct {
	store    interfaces.Store
	policy   PolicyFilter
	hydrator *Hydrator
}

func NewNotificationService(store interfaces.Store, policy PolicyFilter, hydrator *Hydrator) *NotificationService {
	return &NotificationService{store: store, policy: policy, hydrator: hydrator}
}

// Notify 尽力创建通知，失败只记录日志，不影响主操作
func (s *NotificationService) Notify(ctx context.Context, req NotificationRequest) {
	kind := string(req.Type)
	if req.From == req.To {
		return
	}
	if !s.policy.ShouldNotify(ctx, req.To, req.Type) {
		metrics.Notification(kind, "suppressed")
		return
	}

	n := &model.Notification{
		FromUserID: req.From,
		ToUserID:   req.To,
		Type:       req.Type,
		PostID:     req.PostID,
		CommentID:  req.CommentID,
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		metrics.Notification(kind, "failed")
		util.Logger.Error("创建通知失败",
			zap.String("type", kind),
			zap.String("to", req.To),
			zap.Error(err))
		return
	}
	metrics.Notification(kind, "sent")
}

// GetNotifications 返回用户的通知，按时间倒序
func (s *NotificationService) GetNotifications(ctx context.Context, userID string) ([]*model.NotificationView, error) {
	list, err := s.store.Notifications().ListForUser(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load notifications", err)
	}

	var userIDs, postIDs, commentIDs []string
	for _, n := range list {
		userIDs = append(userIDs, n.FromUserID)
		if n.PostID != nil {
			postIDs = append(postIDs, *n.PostID)
		}
		if n.CommentID != nil {
			commentIDs = append(commentIDs, *n.CommentID)
		}
	}

	users, err := s.hydrator.Users(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.Posts().FindByIDs(ctx, uniqueStrings(postIDs))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load posts", err)
	}
	postByID := make(map[string]*model.Post, len(posts))
	for _, p := range posts {
		postByID[p.ID] = p
	}
	comments, err := s.store.Comments().FindByIDs(ctx, uniqueStrings(commentIDs))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load comments", err)
	}
	commentByID := make(map[string]*model.Comment, len(comments))
	for _, c := range comments {
		commentByID[c.ID] = c
	}

	out := make([]*model.NotificationView, 0, len(list))
	for _, n := range list {
		v := &model.NotificationView{
			ID:        n.ID,
			From:      users[n.FromUserID],
			To:        n.ToUserID,
			Type:      n.Type,
			CreatedAt: n.CreatedAt,
		}
		if n.PostID != nil {
			if p, ok := postByID[*n.PostID]; ok {
				v.Post = &model.NotificationPostRef{ID: p.ID, Content: p.Content, Image: p.Image}
			}
		}
		if n.CommentID != nil {
			if c, ok := commentByID[*n.CommentID]; ok {
				v.Comment = &model.NotificationCommentRef{ID: c.ID, Content: c.Content}
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// DeleteNotification 只允许接收者删除
func (s *NotificationService) DeleteNotification(ctx context.Context, id, userID string) error {
	deleted, err := s.store.Notifications().DeleteForRecipient(ctx, id, userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete notification", err)
	}
	if !deleted {
		return errors.New(errors.ErrNotFound, "Notification not found")
	}
	return nil
}

func (s *NotificationService) GetSettings(ctx context.Context, userID string) (model.NotificationSettings, error) {
	user, err := requireUser(ctx, s.store.Users(), userID)
	if err != nil {
		return model.NotificationSettings{}, err
	}
	return user.NotificationSettings, nil
}

// UpdateSettings 部分更新通知设置
func (s *NotificationService) UpdateSettings(ctx context.Context, userID string, update model.NotificationSettingsUpdate) (model.NotificationSettings, error) {
	var settings model.NotificationSettings
	err := runTx(ctx, s.store, "update notification settings", func(tx interfaces.Store) error {
		user, err := requireUser(ctx, tx.Users(), userID)
		if err != nil {
			return err
		}
		settings = user.NotificationSettings.Apply(update)
		return tx.Users().UpdateNotificationSettings(ctx, userID, settings)
	})
	if err != nil {
		return model.NotificationSettings{}, err
	}
	util.Logger.Info("通知设置已更新", zap.String("user_id", userID))
	return settings, nil
}
