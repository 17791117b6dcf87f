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

// FollowService 维护关注边和双方的关注计数
type FollowService struct {
	store    interfaces.Store
	notifier *NotificationService
	hydrator *Hydrator
}

func NewFollowService(store interfaces.Store, notifier *NotificationService, hydrator *Hydrator) *FollowService {
	return &FollowService{store: store, notifier: notifier, hydrator: hydrator}
}

// ToggleFollow 已关注则取关，否则关注。返回切换后是否处于关注状态
func (s *FollowService) ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, errors.New(errors.ErrInvalidInput, "You cannot follow yourself")
	}
	if _, err := requireUser(ctx, s.store.Users(), actorID); err != nil {
		return false, err
	}
	if _, err := requireUser(ctx, s.store.Users(), targetID); err != nil {
		return false, err
	}

	var following bool
	err := runTx(ctx, s.store, "toggle follow", func(tx interfaces.Store) error {
		removed, err := tx.Follows().Delete(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if removed {
			return tx.Users().AdjustFollowCounts(ctx, actorID, targetID, -1)
		}
		created, err := tx.Follows().Create(ctx, actorID, targetID)
		if err != nil || !created {
			return err
		}
		following = true
		return tx.Users().AdjustFollowCounts(ctx, actorID, targetID, 1)
	})
	if err != nil {
		return false, err
	}

	metrics.Toggle("follow", following)
	util.Logger.Info("关注状态已切换",
		zap.String("follower", actorID),
		zap.String("following", targetID),
		zap.Bool("state", following))

	if following {
		s.notifier.Notify(ctx, NotificationRequest{From: actorID, To: targetID, Type: model.NotificationFollow})
	}
	return following, nil
}

// GetFollowers 返回关注 userID 的用户，标注查看者是否也关注了他们
func (s *FollowService) GetFollowers(ctx context.Context, userID, viewerID string, page Page) ([]*model.FollowUserView, error) {
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	page = page.normalize(defaultPageSize)
	edges, err := s.store.Follows().ListFollowers(ctx, userID, page.Offset(), page.Limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load followers", err)
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowerID)
	}
	return s.annotate(ctx, ids, viewerID)
}

// GetFollowing 返回 userID 关注的用户
func (s *FollowService) GetFollowing(ctx context.Context, userID, viewerID string, page Page) ([]*model.FollowUserView, error) {
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	page = page.normalize(defaultPageSize)
	edges, err := s.store.Follows().ListFollowing(ctx, userID, page.Offset(), page.Limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load following", err)
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowingID)
	}
	return s.annotate(ctx, ids, viewerID)
}

func (s *FollowService) annotate(ctx context.Context, ids []string, viewerID string) ([]*model.FollowUserView, error) {
	users, err := s.hydrator.Users(ctx, ids)
	if err != nil {
		return nil, err
	}
	followed, err := s.store.Follows().FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load follow state", err)
	}

	out := make([]*model.FollowUserView, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		out = append(out, &model.FollowUserView{UserSummary: u, IsFollowing: followed[id]})
	}
	return out, nil
}
