package interfaces

import (
	"context"

	"social-backend/internal/model"
)

// PostFilter 帖子列表过滤条件，零值表示不过滤
type PostFilter struct {
	UserID       string
	IsRepost     *bool
	MemberKind   model.PostMemberKind
	MemberUserID string
	Hashtag      string
}

// PostRepository 定义了帖子相关的数据库操作接口
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Post, error)
	// FindRepostShell 查找 userID 对 originalID 的转发壳
	FindRepostShell(ctx context.Context, userID, originalID string) (*model.Post, error)
	// FindByOriginal 返回引用或转发 originalID 的帖子
	FindByOriginal(ctx context.Context, originalID string) ([]*model.Post, error)
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]*model.Post, int64, error)
	Delete(ctx context.Context, id string) error

	// AddMember 加入集合，返回是否实际插入
	AddMember(ctx context.Context, postID string, kind model.PostMemberKind, userID string) (bool, error)
	// RemoveMember 移出集合，返回是否实际删除
	RemoveMember(ctx context.Context, postID string, kind model.PostMemberKind, userID string) (bool, error)
	HasMember(ctx context.Context, postID string, kind model.PostMemberKind, userID string) (bool, error)
	// MembersOf 批量读取集合，按加入时间排序
	MembersOf(ctx context.Context, postIDs []string, kind model.PostMemberKind) (map[string][]string, error)

	AppendComment(ctx context.Context, postID, commentID string) error
	RemoveComment(ctx context.Context, postID, commentID string) error
	CommentIDsOf(ctx context.Context, postIDs []string) (map[string][]string, error)

	AddHashtags(ctx context.Context, postID string, topics []string) error
	// DeleteRelations 删除帖子的集合成员、评论链接和话题索引
	DeleteRelations(ctx context.Context, postID string) error
}
