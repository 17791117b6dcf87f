package service

import (
	"context"
	"strings"

	"social-backend/internal/metrics"
	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/service/errors"
	"social-backend/internal/storage"
	"social-backend/internal/util"

	"go.uber.org/zap"
)

// CreatePostInput 新帖子内容，Image 为空表示纯文本
type CreatePostInput struct {
	Content     string
	Image       []byte
	ContentType string
}

// PostService 处理帖子、点赞、转发、引用、收藏以及话题计数
type PostService struct {
	store    interfaces.Store
	media    storage.MediaStore
	notifier *NotificationService
	hydrator *Hydrator
}

func NewPostService(store interfaces.Store, media storage.MediaStore, notifier *NotificationService, hydrator *Hydrator) *PostService {
	return &PostService{store: store, media: media, notifier: notifier, hydrator: hydrator}
}

func (s *PostService) page(ctx context.Context, filter interfaces.PostFilter, page Page) (*model.PostPage, error) {
	page = page.normalize(defaultPageSize)
	posts, total, err := s.store.Posts().List(ctx, filter, page.Offset(), page.Limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load posts", err)
	}
	views, err := s.hydrator.Posts(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &model.PostPage{
		Posts:   views,
		Total:   total,
		HasMore: int64(page.Offset()+len(posts)) < total,
	}, nil
}

func (s *PostService) userByName(ctx context.Context, username string) (*model.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "User not found")
	}
	return user, nil
}

// GetPosts 全站时间线
func (s *PostService) GetPosts(ctx context.Context, page Page) (*model.PostPage, error) {
	return s.page(ctx, interfaces.PostFilter{}, page)
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*model.PostView, error) {
	post, err := requirePost(ctx, s.store.Posts(), postID)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Post(ctx, post)
}

// GetUserPosts 用户发布的帖子，不含转发壳
func (s *PostService) GetUserPosts(ctx context.Context, username string, page Page) (*model.PostPage, error) {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	notRepost := false
	return s.page(ctx, interfaces.PostFilter{UserID: user.ID, IsRepost: &notRepost}, page)
}

func (s *PostService) GetUserReposts(ctx context.Context, username string, page Page) (*model.PostPage, error) {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	repost := true
	return s.page(ctx, interfaces.PostFilter{UserID: user.ID, IsRepost: &repost}, page)
}

// GetUserLikedPosts 只有本人可以查看
func (s *PostService) GetUserLikedPosts(ctx context.Context, username, viewerID string, page Page) (*model.PostPage, error) {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.ID != viewerID {
		return nil, errors.New(errors.ErrForbidden, "Not authorized to view these likes")
	}
	return s.page(ctx, interfaces.PostFilter{MemberKind: model.MemberLike, MemberUserID: user.ID}, page)
}

func (s *PostService) GetUserBookmarks(ctx context.Context, username, viewerID string, page Page) (*model.PostPage, error) {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.ID != viewerID {
		return nil, errors.New(errors.ErrForbidden, "Not authorized to view these bookmarks")
	}
	return s.page(ctx, interfaces.PostFilter{MemberKind: model.MemberBookmark, MemberUserID: user.ID}, page)
}

// SearchByHashtag 按话题查找帖子，tag 可带或不带 #
func (s *PostService) SearchByHashtag(ctx context.Context, tag string, page Page) (*model.PostPage, error) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return nil, errors.New(errors.ErrInvalidInput, "Hashtag is required")
	}
	return s.page(ctx, interfaces.PostFilter{Hashtag: NormalizeSearchTerm(tag)}, page)
}

// CreatePost 先上传图片，上传失败则不创建帖子。帖子和话题计数同一事务写入
func (s *PostService) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*model.PostView, error) {
	if strings.TrimSpace(in.Content) == "" && len(in.Image) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "Post must contain either text or image")
	}
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}

	post := &model.Post{UserID: userID, Content: in.Content}
	if len(in.Image) > 0 {
		url, err := s.upload(ctx, in.Image, in.ContentType)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	err := runTx(ctx, s.store, "create post", func(tx interfaces.Store) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		return applyPostHashtags(ctx, tx, post.ID, post.Content, 1)
	})
	if err != nil {
		return nil, err
	}
	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID), zap.String("user_id", userID))
	return s.hydrator.Post(ctx, post)
}

func (s *PostService) upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.media == nil {
		return "", errors.New(errors.ErrThirdParty, "Failed to upload image")
	}
	data, contentType, err := storage.Normalize(data, contentType)
	if err != nil {
		util.Logger.Error("图片处理失败", zap.Error(err))
		return "", errors.Wrap(errors.ErrThirdParty, "Failed to upload image", err)
	}
	url, err := s.media.Upload(ctx, data, contentType)
	if err != nil {
		util.Logger.Error("图片上传失败", zap.Error(err))
		return "", errors.Wrap(errors.ErrThirdParty, "Failed to upload image", err)
	}
	return url, nil
}

// DeletePost 只有作者可以删除。话题计数、评论、转发壳、通知随帖子一并删除
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := requirePost(ctx, s.store.Posts(), postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return errors.New(errors.ErrForbidden, "You can only delete your own posts")
	}

	err = runTx(ctx, s.store, "delete post", func(tx interfaces.Store) error {
		dependents, err := tx.Posts().FindByOriginal(ctx, post.ID)
		if err != nil {
			return err
		}
		for _, d := range dependents {
			if !d.IsRepost {
				continue
			}
			if err := deletePostTx(ctx, tx, d); err != nil {
				return err
			}
		}
		return deletePostTx(ctx, tx, post)
	})
	if err != nil {
		return err
	}
	util.Logger.Info("帖子已删除", zap.String("post_id", postID))
	return nil
}

// deletePostTx 删除单个帖子及其附属数据，不处理引用它的其他帖子
func deletePostTx(ctx context.Context, tx interfaces.Store, post *model.Post) error {
	if err := applyPostHashtags(ctx, tx, post.ID, post.Content, -1); err != nil {
		return err
	}

	commentIDs, err := tx.Comments().IDsByPost(ctx, post.ID)
	if err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := tx.Comments().Delete(ctx, commentIDs...); err != nil {
			return err
		}
		if err := tx.Notifications().DeleteByComments(ctx, commentIDs); err != nil {
			return err
		}
	}
	if err := tx.Posts().DeleteRelations(ctx, post.ID); err != nil {
		return err
	}

	if post.OriginalPostID != nil {
		if err := detachFromOriginal(ctx, tx, post); err != nil {
			return err
		}
	}
	if err := tx.Notifications().DeleteByPost(ctx, post.ID); err != nil {
		return err
	}
	return tx.Posts().Delete(ctx, post.ID)
}

// detachFromOriginal 删除转发壳或引用帖时，同步原帖的 repostedBy / quotedBy
func detachFromOriginal(ctx context.Context, tx interfaces.Store, post *model.Post) error {
	origID := *post.OriginalPostID
	if post.IsRepost {
		_, err := tx.Posts().RemoveMember(ctx, origID, model.MemberRepost, post.UserID)
		return err
	}

	siblings, err := tx.Posts().FindByOriginal(ctx, origID)
	if err != nil {
		return err
	}
	for _, p := range siblings {
		if p.ID != post.ID && p.UserID == post.UserID && p.IsQuote() {
			return nil
		}
	}
	_, err = tx.Posts().RemoveMember(ctx, origID, model.MemberQuote, post.UserID)
	return err
}

// LikePost 切换点赞，从未点赞变为点赞时通知作者
func (s *PostService) LikePost(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return false, err
	}
	post, err := requirePost(ctx, s.store.Posts(), postID)
	if err != nil {
		return false, err
	}

	liked, err := s.toggleMember(ctx, "toggle post like", postID, model.MemberLike, userID)
	if err != nil {
		return false, err
	}
	metrics.Toggle("post_like", liked)

	if liked && post.UserID != userID {
		s.notifier.Notify(ctx, NotificationRequest{
			From:   userID,
			To:     post.UserID,
			Type:   model.NotificationLike,
			PostID: strPtr(postID),
		})
	}
	return liked, nil
}

// BookmarkPost 切换收藏，不发通知
func (s *PostService) BookmarkPost(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return false, err
	}
	if _, err := requirePost(ctx, s.store.Posts(), postID); err != nil {
		return false, err
	}
	saved, err := s.toggleMember(ctx, "toggle bookmark", postID, model.MemberBookmark, userID)
	if err != nil {
		return false, err
	}
	metrics.Toggle("bookmark", saved)
	return saved, nil
}

func (s *PostService) toggleMember(ctx context.Context, op, postID string, kind model.PostMemberKind, userID string) (bool, error) {
	var added bool
	err := runTx(ctx, s.store, op, func(tx interfaces.Store) error {
		removed, err := tx.Posts().RemoveMember(ctx, postID, kind, userID)
		if err != nil || removed {
			return err
		}
		added, err = tx.Posts().AddMember(ctx, postID, kind, userID)
		return err
	})
	return added, err
}

// RepostPost 切换转发。转发壳帖子和 repostedBy 成员同一事务维护
func (s *PostService) RepostPost(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return false, err
	}
	post, err := requirePost(ctx, s.store.Posts(), postID)
	if err != nil {
		return false, err
	}
	if post.UserID == userID {
		return false, errors.New(errors.ErrInvalidInput, "Cannot repost your own post")
	}

	var reposted bool
	err = runTx(ctx, s.store, "toggle repost", func(tx interfaces.Store) error {
		removed, err := tx.Posts().RemoveMember(ctx, postID, model.MemberRepost, userID)
		if err != nil {
			return err
		}
		shell, err := tx.Posts().FindRepostShell(ctx, userID, postID)
		if err != nil {
			return err
		}
		if removed {
			if shell == nil {
				return nil
			}
			return deletePostTx(ctx, tx, shell)
		}

		if shell == nil {
			shell = &model.Post{UserID: userID, IsRepost: true, OriginalPostID: strPtr(postID)}
			if err := tx.Posts().Create(ctx, shell); err != nil {
				return err
			}
		}
		reposted, err = tx.Posts().AddMember(ctx, postID, model.MemberRepost, userID)
		return err
	})
	if err != nil {
		return false, err
	}
	metrics.Toggle("repost", reposted)
	util.Logger.Info("转发状态已切换", zap.String("post_id", postID), zap.String("user_id", userID), zap.Bool("state", reposted))

	if reposted {
		s.notifier.Notify(ctx, NotificationRequest{
			From:   userID,
			To:     post.UserID,
			Type:   model.NotificationRepost,
			PostID: strPtr(postID),
		})
	}
	return reposted, nil
}

// QuotePost 创建引用帖，原帖记录引用者，引用内容计入话题
func (s *PostService) QuotePost(ctx context.Context, postID, userID, content string) (*model.PostView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "Quote content is required")
	}
	if _, err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	original, err := requirePost(ctx, s.store.Posts(), postID)
	if err != nil {
		return nil, err
	}

	quote := &model.Post{UserID: userID, Content: content, OriginalPostID: strPtr(postID)}
	err = runTx(ctx, s.store, "quote post", func(tx interfaces.Store) error {
		if err := tx.Posts().Create(ctx, quote); err != nil {
			return err
		}
		if _, err := tx.Posts().AddMember(ctx, postID, model.MemberQuote, userID); err != nil {
			return err
		}
		return applyPostHashtags(ctx, tx, quote.ID, content, 1)
	})
	if err != nil {
		return nil, err
	}
	util.Logger.Info("引用帖创建成功", zap.String("post_id", quote.ID), zap.String("original", postID))

	if original.UserID != userID {
		s.notifier.Notify(ctx, NotificationRequest{
			From:   userID,
			To:     original.UserID,
			Type:   model.NotificationQuote,
			PostID: strPtr(quote.ID),
		})
	}
	return s.hydrator.Post(ctx, quote)
}
