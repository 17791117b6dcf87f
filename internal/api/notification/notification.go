package notification

import (
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/model"
	"social-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	list, err := h.notificationService.GetNotifications(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"notifications": list})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	if err := h.notificationService.DeleteNotification(c.Request.Context(), c.Param("notificationId"), middleware.CurrentUserID(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleMessage(c, "Notification deleted succesfully")
}

func (h *NotificationHandler) GetSettings(c *gin.Context) {
	settings, err := h.notificationService.GetSettings(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"settings": settings})
}

func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	var update model.NotificationSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid notification settings", err))
		return
	}

	settings, err := h.notificationService.UpdateSettings(c.Request.Context(), middleware.CurrentUserID(c), update)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"settings": settings})
}
