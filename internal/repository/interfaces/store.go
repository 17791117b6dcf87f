package interfaces

import "context"

// Store 聚合各实体仓储并提供事务
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	Follows() FollowRepository
	Conversations() ConversationRepository
	Messages() MessageRepository
	Notifications() NotificationRepository
	Trends() TrendRepository

	// Transaction 在单个事务中执行 fn，fn 返回错误或超时时整体回滚
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
