package model

import "time"

// LastMessage 会话最后一条消息快照
type LastMessage struct {
	Content  string     `gorm:"type:text"`
	SenderID *string    `gorm:"type:varchar(36)"`
	SentAt   *time.Time `gorm:"index"`
}

// Conversation 两人会话，参与者按字典序存为 (low, high) 并唯一
type Conversation struct {
	ID              string      `gorm:"primaryKey;type:varchar(36)"`
	ParticipantLow  string      `gorm:"type:varchar(36);not null;index:idx_conversation_pair,unique"`
	ParticipantHigh string      `gorm:"type:varchar(36);not null;index:idx_conversation_pair,unique;index:idx_conversation_high"`
	LastMessage     LastMessage `gorm:"embedded;embeddedPrefix:last_message_"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderedPair 返回无序参与者对的规范顺序
func OrderedPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

func (c *Conversation) Participants() []string {
	return []string{c.ParticipantLow, c.ParticipantHigh}
}

func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantLow == userID || c.ParticipantHigh == userID
}

// OtherParticipant 返回对方 ID，userID 不是参与者时返回空串
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantLow:
		return c.ParticipantHigh
	case c.ParticipantHigh:
		return c.ParticipantLow
	default:
		return ""
	}
}

// ConversationUnread 会话中某个参与者的未读计数，是未读消息数的缓存
type ConversationUnread struct {
	ConversationID string `gorm:"primaryKey;type:varchar(36)"`
	UserID         string `gorm:"primaryKey;type:varchar(36)"`
	Count          int64  `gorm:"column:unread_count;not null;default:0"`
}

// UnreadCounts 参与者 ID 到未读数的映射
type UnreadCounts map[string]int64

func (u UnreadCounts) Get(userID string) int64 {
	return u[userID]
}

func (u UnreadCounts) Set(userID string, n int64) {
	u[userID] = n
}

// Message 私信
type Message struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)"`
	ConversationID string     `gorm:"type:varchar(36);not null;index:idx_message_conversation"`
	SenderID       string     `gorm:"type:varchar(36);not null"`
	ReceiverID     string     `gorm:"type:varchar(36);not null;index:idx_message_receiver"`
	Content        string     `gorm:"type:text;not null"`
	Read           bool       `gorm:"column:is_read;not null;index:idx_message_receiver"`
	ReadAt         *time.Time
	CreatedAt      time.Time `gorm:"index"`
}

type LastMessageView struct {
	Content string     `json:"content"`
	Sender  *string    `json:"sender"`
	SentAt  *time.Time `json:"sentAt"`
}

func (l LastMessage) View() *LastMessageView {
	if l.SentAt == nil {
		return nil
	}
	return &LastMessageView{Content: l.Content, Sender: l.SenderID, SentAt: l.SentAt}
}

// ConversationView 会话详情读模型
type ConversationView struct {
	ID           string           `json:"_id"`
	Participants []*UserSummary   `json:"participants"`
	LastMessage  *LastMessageView `json:"lastMessage"`
	UnreadCount  UnreadCounts     `json:"unreadCount"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ConversationListItem 会话列表项，UnreadCount 为查看者自己的未读数
type ConversationListItem struct {
	ID          string           `json:"_id"`
	OtherUser   *UserSummary     `json:"otherUser"`
	LastMessage *LastMessageView `json:"lastMessage"`
	UnreadCount int64            `json:"unreadCount"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// MessageView 消息读模型
type MessageView struct {
	ID           string       `json:"_id"`
	Conversation string       `json:"conversation"`
	Sender       *UserSummary `json:"sender"`
	Receiver     *UserSummary `json:"receiver"`
	Content      string       `json:"content"`
	Read         bool         `json:"read"`
	ReadAt       *time.Time   `json:"readAt"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Pagination 分页信息
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// MessagePage 按时间正序的一页消息
type MessagePage struct {
	Messages   []*MessageView `json:"messages"`
	Pagination Pagination     `json:"pagination"`
}
