package cache

import (
	"context"

	"social-backend/internal/model"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUUserCache 进程内用户缓存，未配置 redis 时使用
type LRUUserCache struct {
	users *lru.TwoQueueCache[string, *model.UserSummary]
}

func NewLRUUserCache(size int) (*LRUUserCache, error) {
	c, err := lru.New2Q[string, *model.UserSummary](size)
	if err != nil {
		return nil, err
	}
	return &LRUUserCache{users: c}, nil
}

func (c *LRUUserCache) GetMany(_ context.Context, ids []string) (map[string]*model.UserSummary, error) {
	out := make(map[string]*model.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := c.users.Get(id); ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (c *LRUUserCache) SetMany(_ context.Context, users []*model.UserSummary) error {
	for _, u := range users {
		cp := *u
		c.users.Add(u.ID, &cp)
	}
	return nil
}

func (c *LRUUserCache) Invalidate(_ context.Context, id string) error {
	c.users.Remove(id)
	return nil
}
