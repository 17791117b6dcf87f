package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const usernameAttempts = 5

var usernameInvalid = regexp.MustCompile(`[^a-z0-9_]+`)

// SyncUserInput 认证服务提供的身份信息
type SyncUserInput struct {
	ExternalID     string
	Email          string
	Username       string
	FirstName      string
	LastName       string
	ProfilePicture string
}

type UserService struct {
	store    interfaces.Store
	hydrator *Hydrator
}

func NewUserService(store interfaces.Store, hydrator *Hydrator) *UserService {
	return &UserService{store: store, hydrator: hydrator}
}

// SyncUser 首次登录时创建用户，已存在则直接返回
func (s *UserService) SyncUser(ctx context.Context, in SyncUserInput) (*model.User, bool, error) {
	if in.ExternalID == "" {
		return nil, false, errors.New(errors.ErrInvalidInput, "External ID is required")
	}
	existing, err := s.store.Users().FindByExternalID(ctx, in.ExternalID)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	username, err := s.availableUsername(ctx, baseUsername(in))
	if err != nil {
		return nil, false, err
	}
	user := &model.User{
		ExternalID:           in.ExternalID,
		Email:                in.Email,
		Username:             username,
		FirstName:            in.FirstName,
		LastName:             in.LastName,
		ProfilePicture:       in.ProfilePicture,
		NotificationSettings: model.DefaultNotificationSettings(),
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		// 并发同步时另一个请求可能已经创建
		if again, ferr := s.store.Users().FindByExternalID(ctx, in.ExternalID); ferr == nil && again != nil {
			return again, false, nil
		}
		util.Logger.Error("创建用户失败", zap.String("external_id", in.ExternalID), zap.Error(err))
		return nil, false, errors.Wrap(errors.ErrDatabase, "failed to create user", err)
	}

	util.Logger.Info("用户创建成功", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, true, nil
}

func baseUsername(in SyncUserInput) string {
	name := in.Username
	if name == "" {
		name, _, _ = strings.Cut(in.Email, "@")
	}
	name = usernameInvalid.ReplaceAllString(strings.ToLower(name), "")
	if name == "" {
		name = "user"
	}
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}

func (s *UserService) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 0; i < usernameAttempts; i++ {
		u, err := s.store.Users().FindByUsername(ctx, candidate)
		if err != nil {
			return "", errors.Wrap(errors.ErrDatabase, "failed to load user", err)
		}
		if u == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i+1)
	}
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8], nil
}

// ResolveExternalID 将认证身份映射为内部用户 ID
func (s *UserService) ResolveExternalID(ctx context.Context, externalID string) (string, error) {
	user, err := s.store.Users().FindByExternalID(ctx, externalID)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return "", errors.New(errors.ErrNotFound, "User not found")
	}
	return user.ID, nil
}

func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return requireUser(ctx, s.store.Users(), userID)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return requireUser(ctx, s.store.Users(), id)
}

func (s *UserService) GetUserProfile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "User not found")
	}
	return user, nil
}

// UpdateProfile 更新资料并清理展示缓存
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error) {
	var user *model.User
	err := runTx(ctx, s.store, "update profile", func(tx interfaces.Store) error {
		if _, err := requireUser(ctx, tx.Users(), userID); err != nil {
			return err
		}
		if err := tx.Users().UpdateProfile(ctx, userID, update); err != nil {
			return err
		}
		var err error
		user, err = tx.Users().FindByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.hydrator.InvalidateUser(ctx, userID)
	util.Logger.Info("用户资料已更新", zap.String("user_id", userID))
	return user, nil
}
