package model

import "time"

// Post 帖子。转发壳 IsRepost=true 且只有 OriginalPostID；引用帖有内容和 OriginalPostID 但 IsRepost=false
type Post struct {
	ID             string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"user" gorm:"type:varchar(36);not null;index:idx_post_user"`
	Content        string    `json:"content" gorm:"type:text"`
	Image          string    `json:"image" gorm:"type:varchar(512)"`
	IsRepost       bool      `json:"isRepost" gorm:"not null;index:idx_post_repost"`
	OriginalPostID *string   `json:"originalPost" gorm:"type:varchar(36);index:idx_post_original"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsQuote 是否为引用帖
func (p *Post) IsQuote() bool {
	return !p.IsRepost && p.OriginalPostID != nil
}

// PostMemberKind 帖子上的用户集合类型
type PostMemberKind string

const (
	MemberLike     PostMemberKind = "like"
	MemberRepost   PostMemberKind = "repost"
	MemberQuote    PostMemberKind = "quote"
	MemberBookmark PostMemberKind = "bookmark"
)

// PostMember 帖子的 likes / repostedBy / quotedBy / bookmarks 集合成员
type PostMember struct {
	PostID    string         `gorm:"primaryKey;type:varchar(36)"`
	Kind      PostMemberKind `gorm:"primaryKey;type:varchar(16)"`
	UserID    string         `gorm:"primaryKey;type:varchar(36);index:idx_member_user"`
	CreatedAt time.Time
}

// PostComment 帖子的评论有序列表
type PostComment struct {
	PostID    string    `gorm:"primaryKey;type:varchar(36)"`
	CommentID string    `gorm:"primaryKey;type:varchar(36);uniqueIndex"`
	CreatedAt time.Time `gorm:"index"`
}

// PostHashtag 帖子话题索引，用于按话题搜索
type PostHashtag struct {
	PostID string `gorm:"primaryKey;type:varchar(36)"`
	Topic  string `gorm:"primaryKey;type:varchar(191);index:idx_hashtag_topic"`
}

// PostView 帖子读模型
type PostView struct {
	ID           string         `json:"_id"`
	User         *UserSummary   `json:"user"`
	Content      string         `json:"content"`
	Image        string         `json:"image"`
	Likes        []string       `json:"likes"`
	RepostedBy   []*UserSummary `json:"repostedBy"`
	QuotedBy     []string       `json:"quotedBy"`
	Comments     []*CommentView `json:"comments"`
	IsRepost     bool           `json:"isRepost"`
	OriginalPost *PostView      `json:"originalPost"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// PostPage 分页结果
type PostPage struct {
	Posts   []*PostView `json:"posts"`
	Total   int64       `json:"total"`
	HasMore bool        `json:"hasMore"`
}
