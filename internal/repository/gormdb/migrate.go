package gormdb

import (
	"social-backend/internal/model"

	"gorm.io/gorm"
)

// Models 需要迁移的全部表
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Post{},
		&model.PostMember{},
		&model.PostComment{},
		&model.PostHashtag{},
		&model.Comment{},
		&model.CommentLike{},
		&model.CommentReply{},
		&model.Follow{},
		&model.Conversation{},
		&model.ConversationUnread{},
		&model.Message{},
		&model.Notification{},
		&model.Trend{},
	}
}

// Migrate 自动建表和索引
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
