package cache

import (
	"context"
	"time"

	"social-backend/internal/model"
	"social-backend/internal/util"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userKeyPrefix = "user:summary:"

// RedisUserCache 基于 redis 的用户缓存，多实例部署时共享
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{client: client, ttl: ttl}
}

func userKey(id string) string { return userKeyPrefix + id }

func (c *RedisUserCache) GetMany(ctx context.Context, ids []string) (map[string]*model.UserSummary, error) {
	out := make(map[string]*model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var u model.UserSummary
		if err := json.Unmarshal([]byte(s), &u); err != nil {
			util.Logger.Warn("用户缓存反序列化失败", zap.String("user_id", ids[i]), zap.Error(err))
			continue
		}
		out[ids[i]] = &u
	}
	return out, nil
}

func (c *RedisUserCache) SetMany(ctx context.Context, users []*model.UserSummary) error {
	if len(users) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, u := range users {
		payload, err := json.Marshal(u)
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKey(u.ID), payload, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisUserCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, userKey(id)).Err()
}
