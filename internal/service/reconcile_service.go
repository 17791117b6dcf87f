package service

import (
	"context"

	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

const reconcileBatch = 200

// ReconcileReport 修复的记录数
type ReconcileReport struct {
	UsersChecked         int `json:"usersChecked"`
	UsersFixed           int `json:"usersFixed"`
	ConversationsChecked int `json:"conversationsChecked"`
	UnreadFixed          int `json:"unreadFixed"`
}

// ReconcileService 从关注边和未读消息重新计算缓存计数
type ReconcileService struct {
	store interfaces.Store
}

func NewReconcileService(store interfaces.Store) *ReconcileService {
	return &ReconcileService{store: store}
}

func (s *ReconcileService) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	if err := s.followCounts(ctx, report); err != nil {
		return report, err
	}
	if err := s.unreadCounts(ctx, report); err != nil {
		return report, err
	}
	util.Logger.Info("计数校准完成",
		zap.Int("users_checked", report.UsersChecked),
		zap.Int("users_fixed", report.UsersFixed),
		zap.Int("conversations_checked", report.ConversationsChecked),
		zap.Int("unread_fixed", report.UnreadFixed))
	return report, nil
}

func (s *ReconcileService) followCounts(ctx context.Context, report *ReconcileReport) error {
	for offset := 0; ; offset += reconcileBatch {
		ids, err := s.store.Users().ListIDs(ctx, offset, reconcileBatch)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to list users", err)
		}
		for _, id := range ids {
			fixed := false
			err := runTx(ctx, s.store, "reconcile follow counts", func(tx interfaces.Store) error {
				user, err := tx.Users().FindByID(ctx, id)
				if err != nil || user == nil {
					return err
				}
				followers, err := tx.Follows().CountFollowers(ctx, id)
				if err != nil {
					return err
				}
				following, err := tx.Follows().CountFollowing(ctx, id)
				if err != nil {
					return err
				}
				if user.FollowersCount == followers && user.FollowingCount == following {
					return nil
				}
				fixed = true
				return tx.Users().SetFollowCounts(ctx, id, followers, following)
			})
			if err != nil {
				return err
			}
			report.UsersChecked++
			if fixed {
				report.UsersFixed++
				util.Logger.Warn("关注计数已修复", zap.String("user_id", id))
			}
		}
		if len(ids) < reconcileBatch {
			return nil
		}
	}
}

func (s *ReconcileService) unreadCounts(ctx context.Context, report *ReconcileReport) error {
	for offset := 0; ; offset += reconcileBatch {
		ids, err := s.store.Conversations().ListIDs(ctx, offset, reconcileBatch)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to list conversations", err)
		}
		for _, id := range ids {
			fixed := 0
			err := runTx(ctx, s.store, "reconcile unread counts", func(tx interfaces.Store) error {
				conv, err := tx.Conversations().FindByID(ctx, id)
				if err != nil || conv == nil {
					return err
				}
				stored, err := tx.Conversations().UnreadCounts(ctx, id)
				if err != nil {
					return err
				}
				for _, p := range conv.Participants() {
					actual, err := tx.Messages().CountUnread(ctx, id, p)
					if err != nil {
						return err
					}
					if n, ok := stored[p]; ok && n == actual {
						continue
					}
					if err := tx.Conversations().SetUnread(ctx, id, p, actual); err != nil {
						return err
					}
					fixed++
				}
				return nil
			})
			if err != nil {
				return err
			}
			report.ConversationsChecked++
			report.UnreadFixed += fixed
		}
		if len(ids) < reconcileBatch {
			return nil
		}
	}
}
