package service

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags 按出现次数返回小写话题（带 #），创建和删除帖子共用同一套规则
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, "#"+strings.ToLower(m[1]))
	}
	return tags
}

// hashtagDeltas 每次出现计 sign
func hashtagDeltas(content string, sign int64) map[string]int64 {
	deltas := make(map[string]int64)
	for _, tag := range ExtractHashtags(content) {
		deltas[tag] += sign
	}
	return deltas
}

// NormalizeSearchTerm 转为小写并去掉所有空白，统一为单个 # 前缀
func NormalizeSearchTerm(term string) string {
	var b strings.Builder
	b.WriteByte('#')
	for _, r := range strings.TrimLeft(strings.TrimSpace(strings.ToLower(term)), "#") {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// applyPostHashtags 在事务内更新话题计数和帖子话题索引
func applyPostHashtags(ctx context.Context, tx interfaces.Store, postID, content string, sign int64) error {
	deltas := hashtagDeltas(content, sign)
	if len(deltas) == 0 {
		return nil
	}
	if err := tx.Trends().AdjustPostCounts(ctx, deltas); err != nil {
		return err
	}
	if sign > 0 {
		return tx.Posts().AddHashtags(ctx, postID, ExtractHashtags(content))
	}
	return nil
}

type TrendService struct {
	store interfaces.Store
	limit int
}

func NewTrendService(store interfaces.Store, limit int) *TrendService {
	if limit <= 0 {
		limit = 10
	}
	return &TrendService{store: store, limit: limit}
}

// RecordSearch 记录一次搜索，searchCount 只增不减
func (s *TrendService) RecordSearch(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return errors.New(errors.ErrInvalidInput, "Search term is required")
	}
	topic := NormalizeSearchTerm(term)
	if err := s.store.Trends().IncrementSearch(ctx, topic); err != nil {
		util.Logger.Error("记录搜索失败", zap.String("topic", topic), zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to record search", err)
	}
	return nil
}

// GetTrends 按搜索次数倒序返回前 N 个话题
func (s *TrendService) GetTrends(ctx context.Context) ([]*model.Trend, error) {
	trends, err := s.store.Trends().Top(ctx, s.limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load trends", err)
	}
	if trends == nil {
		trends = []*model.Trend{}
	}
	return trends, nil
}
