package model

import "time"

// CommentKind 评论只有两层：顶层评论和回复
type CommentKind int

const (
	TopLevelComment CommentKind = iota
	ReplyComment
)

// Comment 评论。ParentCommentID 为空表示顶层评论，创建后不可变
type Comment struct {
	ID              string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string    `json:"user" gorm:"type:varchar(36);not null;index:idx_comment_user"`
	PostID          string    `json:"post" gorm:"type:varchar(36);not null;index:idx_comment_post"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	ParentCommentID *string   `json:"parentComment" gorm:"type:varchar(36);index:idx_comment_parent"`
	CreatedAt       time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (c *Comment) Kind() CommentKind {
	if c.ParentCommentID != nil {
		return ReplyComment
	}
	return TopLevelComment
}

// ThreadID 返回所在讨论串的顶层评论 ID
func (c *Comment) ThreadID() string {
	if c.ParentCommentID != nil {
		return *c.ParentCommentID
	}
	return c.ID
}

// CommentLike 评论点赞集合成员
type CommentLike struct {
	CommentID string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}

// CommentReply 顶层评论的回复有序列表
type CommentReply struct {
	CommentID string    `gorm:"primaryKey;type:varchar(36)"`
	ReplyID   string    `gorm:"primaryKey;type:varchar(36);uniqueIndex"`
	CreatedAt time.Time `gorm:"index"`
}

// CommentView 评论读模型
type CommentView struct {
	ID            string         `json:"_id"`
	User          *UserSummary   `json:"user"`
	Post          string         `json:"post"`
	Content       string         `json:"content"`
	Likes         []string       `json:"likes"`
	ParentComment *string        `json:"parentComment"`
	Replies       []*CommentView `json:"replies"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
