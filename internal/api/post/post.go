package post

import (
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"social-backend/internal/api"
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxImageSize 上传图片的大小上限
const MaxImageSize = 5 << 20

type PostHandler struct {
	postService service.PostServiceInterface
}

func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService}
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	page, err := h.postService.GetPosts(c.Request.Context(), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, page)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"post": post})
}

func (h *PostHandler) GetUserPosts(c *gin.Context) {
	page, err := h.postService.GetUserPosts(c.Request.Context(), c.Param("username"), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, page)
}

func (h *PostHandler) GetUserReposts(c *gin.Context) {
	page, err := h.postService.GetUserReposts(c.Request.Context(), c.Param("username"), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, page)
}

func (h *PostHandler) GetUserLikedPosts(c *gin.Context) {
	page, err := h.postService.GetUserLikedPosts(c.Request.Context(), c.Param("username"), middleware.CurrentUserID(c), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, page)
}

func (h *PostHandler) GetUserBookmarks(c *gin.Context) {
	page, err := h.postService.GetUserBookmarks(c.Request.Context(), c.Param("username"), middleware.CurrentUserID(c), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, page)
}

func (h *PostHandler) SearchByHashtag(c *gin.Context) {
	page, err := h.postService.SearchByHashtag(c.Request.Context(), c.Param("hashtag"), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, page)
}

// CreatePost 接收 multipart 表单：content 文本和可选的 image 文件
func (h *PostHandler) CreatePost(c *gin.Context) {
	in := service.CreatePostInput{Content: c.PostForm("content")}

	file, header, err := c.Request.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		if header.Size > MaxImageSize {
			errors.HandleError(c, errors.New(errors.ErrUploadFailed, "Image must be 5MB or smaller"))
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
		if err != nil {
			util.Logger.Error("读取上传文件失败", zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrUploadFailed, "Failed to upload image", err))
			return
		}
		contentType := http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			errors.HandleError(c, errors.New(errors.ErrUploadFailed, "Only image files are allowed"))
			return
		}
		in.Image = data
		in.ContentType = contentType
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
	default:
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "Invalid form data", err))
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"post": post})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), c.Param("postId"), middleware.CurrentUserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleMessage(c, "Post delete successfully")
}

func (h *PostHandler) LikePost(c *gin.Context) {
	liked, err := h.postService.LikePost(c.Request.Context(), c.Param("postId"), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if liked {
		errors.HandleMessage(c, "Post liked successfully")
		return
	}
	errors.HandleMessage(c, "Post unliked succesfully")
}

func (h *PostHandler) BookmarkPost(c *gin.Context) {
	saved, err := h.postService.BookmarkPost(c.Request.Context(), c.Param("postId"), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if saved {
		errors.HandleMessage(c, "Post bookmarked successfully")
		return
	}
	errors.HandleMessage(c, "Bookmark removed successfully")
}

func (h *PostHandler) RepostPost(c *gin.Context) {
	reposted, err := h.postService.RepostPost(c.Request.Context(), c.Param("postId"), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if reposted {
		errors.HandleCreated(c, gin.H{"message": "Repost created succesfully"})
		return
	}
	errors.HandleMessage(c, "Repost removed successfully")
}

func (h *PostHandler) QuotePost(c *gin.Context) {
	var body api.ContentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Quote content is required", err))
		return
	}

	post, err := h.postService.QuotePost(c.Request.Context(), c.Param("postId"), middleware.CurrentUserID(c), body.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"post": post})
}
