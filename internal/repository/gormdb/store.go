package gormdb

import (
	"context"
	"errors"
	"time"

	"social-backend/internal/repository/interfaces"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store 基于 gorm 的 interfaces.Store 实现
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

var _ interfaces.Store = (*Store)(nil)

// NewStore 创建 Store，timeout 限制每个事务的最长执行时间
func NewStore(db *gorm.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() interfaces.UserRepository { return &userRepository{db: s.db} }

func (s *Store) Posts() interfaces.PostRepository { return &postRepository{db: s.db} }

func (s *Store) Comments() interfaces.CommentRepository { return &commentRepository{db: s.db} }

func (s *Store) Follows() interfaces.FollowRepository { return &followRepository{db: s.db} }

func (s *Store) Conversations() interfaces.ConversationRepository {
	return &conversationRepository{db: s.db}
}

func (s *Store) Messages() interfaces.MessageRepository { return &messageRepository{db: s.db} }

func (s *Store) Notifications() interfaces.NotificationRepository {
	return &notificationRepository{db: s.db}
}

func (s *Store) Trends() interfaces.TrendRepository { return &trendRepository{db: s.db} }

// Transaction fn 返回错误、panic 或超过 timeout 时回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx interfaces.Store) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// newID 生成按时间有序的 UUIDv7
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func take[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func groupIDs[T any](rows []T, key func(T) (string, string)) map[string][]string {
	out := make(map[string][]string)
	for _, row := range rows {
		k, v := key(row)
		out[k] = append(out[k], v)
	}
	return out
}
