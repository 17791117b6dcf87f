package service

import (
	"context"
	"time"

	"social-backend/internal/metrics"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page 分页参数，页码从 1 开始
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize(defaultLimit int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// runTx 执行事务并记录耗时，事务内返回的服务错误原样透传
func runTx(ctx context.Context, store interfaces.Store, op string, fn func(tx interfaces.Store) error) error {
	start := time.Now()
	err := store.Transaction(ctx, fn)
	metrics.ObserveTx(op, start, err)
	if err != nil {
		if !errors.IsServiceError(err) {
			util.Logger.Error("事务执行失败，已回滚", zap.String("op", op), zap.Error(err))
		}
		return errors.Wrap(errors.ErrDatabase, "failed to "+op, err)
	}
	return nil
}

func requireUser(ctx context.Context, repo interfaces.UserRepository, id string) (*model.User, error) {
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "User not found")
	}
	return user, nil
}

func requirePost(ctx context.Context, repo interfaces.PostRepository, id string) (*model.Post, error) {
	post, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrNotFound, "Post not found")
	}
	return post, nil
}

func strPtr(s string) *string { return &s }

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
