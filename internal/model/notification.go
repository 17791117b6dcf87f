package model

import "time"

// NotificationType 通知类型
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationRepost  NotificationType = "repost"
	NotificationReply   NotificationType = "reply"
	NotificationQuote   NotificationType = "quote"
)

type Notification struct {
	ID         string           `gorm:"primaryKey;type:varchar(36)"`
	FromUserID string           `gorm:"type:varchar(36);not null"`
	ToUserID   string           `gorm:"type:varchar(36);not null;index:idx_notification_to"`
	Type       NotificationType `gorm:"type:varchar(16);not null"`
	PostID     *string          `gorm:"type:varchar(36);index:idx_notification_post"`
	CommentID  *string          `gorm:"type:varchar(36)"`
	CreatedAt  time.Time        `gorm:"index"`
}

type NotificationPostRef struct {
	ID      string `json:"_id"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

type NotificationCommentRef struct {
	ID      string `json:"_id"`
	Content string `json:"content"`
}

// NotificationView 通知读模型
type NotificationView struct {
	ID        string                  `json:"_id"`
	From      *UserSummary            `json:"from"`
	To        string                  `json:"to"`
	Type      NotificationType        `json:"type"`
	Post      *NotificationPostRef    `json:"post,omitempty"`
	Comment   *NotificationCommentRef `json:"comment,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}
