package comment

import (
	"social-backend/internal/api"
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentServiceInterface
}

func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService}
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.commentService.GetComments(c.Request.Context(), c.Param("postId"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"comments": comments})
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var body api.ContentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Comment content is required", err))
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), c.Param("postId"), middleware.CurrentUserID(c), body.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"comment": comment})
}

func (h *CommentHandler) CreateReply(c *gin.Context) {
	var body api.ContentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Reply content is required", err))
		return
	}

	reply, err := h.commentService.CreateReply(c.Request.Context(), c.Param("commentId"), middleware.CurrentUserID(c), body.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"reply": reply})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.commentService.DeleteComment(c.Request.Context(), c.Param("commentId"), middleware.CurrentUserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleMessage(c, "Comment deleted successfully")
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	liked, err := h.commentService.ToggleLikeComment(c.Request.Context(), c.Param("commentId"), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"message": "Like toggled successfully", "liked": liked})
}
