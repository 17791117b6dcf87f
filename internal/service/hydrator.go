package service

import (
	"context"

	"social-backend/internal/cache"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

// Hydrator 在主查询之后批量加载引用的用户、帖子和评论，组装读模型
type Hydrator struct {
	store interfaces.Store
	cache cache.UserCache
}

// NewHydrator userCache 可以为 nil
func NewHydrator(store interfaces.Store, userCache cache.UserCache) *Hydrator {
	return &Hydrator{store: store, cache: userCache}
}

// Users 批量读取用户展示字段，先查缓存再回源
func (h *Hydrator) Users(ctx context.Context, ids []string) (map[string]*model.UserSummary, error) {
	ids = uniqueStrings(ids)
	out := make(map[string]*model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	missing := ids
	if h.cache != nil {
		hit, err := h.cache.GetMany(ctx, ids)
		if err != nil {
			util.Logger.Warn("读取用户缓存失败", zap.Error(err))
		} else {
			missing = nil
			for _, id := range ids {
				if u, ok := hit[id]; ok {
					out[id] = u
				} else {
					missing = append(missing, id)
				}
			}
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	users, err := h.store.Users().FindByIDs(ctx, missing)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load users", err)
	}
	loaded := make([]*model.UserSummary, 0, len(users))
	for _, u := range users {
		s := u.Summary()
		out[u.ID] = s
		loaded = append(loaded, s)
	}
	if h.cache != nil && len(loaded) > 0 {
		if err := h.cache.SetMany(ctx, loaded); err != nil {
			util.Logger.Warn("写入用户缓存失败", zap.Error(err))
		}
	}
	return out, nil
}

// InvalidateUser 用户资料变更后清理缓存
func (h *Hydrator) InvalidateUser(ctx context.Context, id string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, id); err != nil {
		util.Logger.Warn("清理用户缓存失败", zap.String("user_id", id), zap.Error(err))
	}
}

func (h *Hydrator) User(ctx context.Context, id string) (*model.UserSummary, error) {
	users, err := h.Users(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return users[id], nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Comments 组装评论读模型，顶层评论附带按时间正序的回复
func (h *Hydrator) Comments(ctx context.Context, comments []*model.Comment) ([]*model.CommentView, error) {
	if len(comments) == 0 {
		return []*model.CommentView{}, nil
	}

	repo := h.store.Comments()
	var topIDs []string
	for _, c := range comments {
		if c.Kind() == model.TopLevelComment {
			topIDs = append(topIDs, c.ID)
		}
	}

	replyLinks, err := repo.ReplyIDsOf(ctx, topIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load replies", err)
	}
	var replyIDs []string
	for _, ids := range replyLinks {
		replyIDs = append(replyIDs, ids...)
	}
	replies, err := repo.FindByIDs(ctx, replyIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load replies", err)
	}
	replyByID := make(map[string]*model.Comment, len(replies))
	for _, r := range replies {
		replyByID[r.ID] = r
	}

	allIDs := make([]string, 0, len(comments)+len(replies))
	userIDs := make([]string, 0, len(comments)+len(replies))
	for _, c := range comments {
		allIDs = append(allIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
	}
	for _, r := range replies {
		allIDs = append(allIDs, r.ID)
		userIDs = append(userIDs, r.UserID)
	}

	likes, err := repo.LikesOf(ctx, allIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load comment likes", err)
	}
	users, err := h.Users(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	view := func(c *model.Comment) *model.CommentView {
		return &model.CommentView{
			ID:            c.ID,
			User:          users[c.UserID],
			Post:          c.PostID,
			Content:       c.Content,
			Likes:         nonNil(likes[c.ID]),
			ParentComment: c.ParentCommentID,
			Replies:       []*model.CommentView{},
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		}
	}

	out := make([]*model.CommentView, 0, len(comments))
	for _, c := range comments {
		v := view(c)
		for _, rid := range replyLinks[c.ID] {
			if r, ok := replyByID[rid]; ok {
				v.Replies = append(v.Replies, view(r))
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Posts 组装帖子读模型：作者、点赞、转发者、引用者、评论及回复、原帖
func (h *Hydrator) Posts(ctx context.Context, posts []*model.Post) ([]*model.PostView, error) {
	if len(posts) == 0 {
		return []*model.PostView{}, nil
	}
	repo := h.store.Posts()

	var origIDs []string
	for _, p := range posts {
		if p.OriginalPostID != nil {
			origIDs = append(origIDs, *p.OriginalPostID)
		}
	}
	originals, err := repo.FindByIDs(ctx, uniqueStrings(origIDs))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load original posts", err)
	}
	origByID := make(map[string]*model.Post, len(originals))
	for _, p := range originals {
		origByID[p.ID] = p
	}

	mainIDs := make([]string, 0, len(posts))
	allIDs := make([]string, 0, len(posts)+len(originals))
	for _, p := range posts {
		mainIDs = append(mainIDs, p.ID)
		allIDs = append(allIDs, p.ID)
	}
	for _, p := range originals {
		allIDs = append(allIDs, p.ID)
	}
	allIDs = uniqueStrings(allIDs)

	members := make(map[model.PostMemberKind]map[string][]string, 3)
	for _, kind := range []model.PostMemberKind{model.MemberLike, model.MemberRepost, model.MemberQuote} {
		m, err := repo.MembersOf(ctx, allIDs, kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "failed to load post members", err)
		}
		members[kind] = m
	}

	commentLinks, err := repo.CommentIDsOf(ctx, mainIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load post comments", err)
	}
	var commentIDs []string
	for _, p := range posts {
		commentIDs = append(commentIDs, commentLinks[p.ID]...)
	}
	comments, err := h.store.Comments().FindByIDs(ctx, commentIDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load comments", err)
	}
	commentViews, err := h.Comments(ctx, comments)
	if err != nil {
		return nil, err
	}
	commentByID := make(map[string]*model.CommentView, len(commentViews))
	for _, v := range commentViews {
		commentByID[v.ID] = v
	}

	userIDs := make([]string, 0, len(allIDs))
	for _, p := range posts {
		userIDs = append(userIDs, p.UserID)
	}
	for _, p := range originals {
		userIDs = append(userIDs, p.UserID)
	}
	for _, ids := range members[model.MemberRepost] {
		userIDs = append(userIDs, ids...)
	}
	users, err := h.Users(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	view := func(p *model.Post) *model.PostView {
		v := &model.PostView{
			ID:         p.ID,
			User:       users[p.UserID],
			Content:    p.Content,
			Image:      p.Image,
			Likes:      nonNil(members[model.MemberLike][p.ID]),
			RepostedBy: []*model.UserSummary{},
			QuotedBy:   nonNil(members[model.MemberQuote][p.ID]),
			Comments:   []*model.CommentView{},
			IsRepost:   p.IsRepost,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		}
		for _, uid := range members[model.MemberRepost][p.ID] {
			if u, ok := users[uid]; ok {
				v.RepostedBy = append(v.RepostedBy, u)
			}
		}
		return v
	}

	out := make([]*model.PostView, 0, len(posts))
	for _, p := range posts {
		v := view(p)
		for _, cid := range commentLinks[p.ID] {
			if c, ok := commentByID[cid]; ok {
				v.Comments = append(v.Comments, c)
			}
		}
		if p.OriginalPostID != nil {
			if orig, ok := origByID[*p.OriginalPostID]; ok {
				v.OriginalPost = view(orig)
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *Hydrator) Post(ctx context.Context, post *model.Post) (*model.PostView, error) {
	views, err := h.Posts(ctx, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}
