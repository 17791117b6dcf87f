package conversation

import (
	"social-backend/internal/api"
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationService service.ConversationServiceInterface
}

func NewConversationHandler(conversationService service.ConversationServiceInterface) *ConversationHandler {
	return &ConversationHandler{conversationService}
}

func (h *ConversationHandler) GetConversations(c *gin.Context) {
	list, err := h.conversationService.GetConversations(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"conversations": list})
}

func (h *ConversationHandler) GetOrCreateConversation(c *gin.Context) {
	conv, err := h.conversationService.GetOrCreateConversation(c.Request.Context(), middleware.CurrentUserID(c), c.Param("otherUserId"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"conversation": conv})
}

func (h *ConversationHandler) GetMessages(c *gin.Context) {
	page, err := h.conversationService.GetMessages(c.Request.Context(), c.Param("conversationId"), middleware.CurrentUserID(c), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, page)
}

func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var body api.ContentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Message content is required", err))
		return
	}

	msg, err := h.conversationService.SendMessage(c.Request.Context(), c.Param("conversationId"), middleware.CurrentUserID(c), body.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"message": msg})
}

func (h *ConversationHandler) MarkAsRead(c *gin.Context) {
	if err := h.conversationService.MarkAsRead(c.Request.Context(), c.Param("conversationId"), middleware.CurrentUserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleMessage(c, "Messages marked as read")
}

func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	if err := h.conversationService.DeleteConversation(c.Request.Context(), c.Param("conversationId"), middleware.CurrentUserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleMessage(c, "Conversation delete succesfully")
}
