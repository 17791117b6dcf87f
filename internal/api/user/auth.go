package user

import (
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理身份同步相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// SyncUser 将认证服务中的用户同步到本地，已存在时直接返回
func (h *AuthHandler) SyncUser(c *gin.Context) {
	var body struct {
		Email          string `json:"email" binding:"omitempty,email"`
		Username       string `json:"username" binding:"omitempty,max=64"`
		FirstName      string `json:"firstName" binding:"omitempty,max=100"`
		LastName       string `json:"lastName" binding:"omitempty,max=100"`
		ProfilePicture string `json:"profilePicture" binding:"omitempty,max=512"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			util.Logger.Warn("同步失败，无效的请求数据", zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid user data", err))
			return
		}
	}

	user, created, err := h.userService.SyncUser(c.Request.Context(), service.SyncUserInput{
		ExternalID:     middleware.CurrentExternalID(c),
		Email:          body.Email,
		Username:       body.Username,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		ProfilePicture: body.ProfilePicture,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if created {
		errors.HandleCreated(c, gin.H{"user": user, "message": "User created successfully"})
		return
	}
	errors.HandleSuccess(c, gin.H{"user": user, "message": "User already exists"})
}

// GetCurrentUser 返回当前登录用户
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.userService.GetCurrentUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"user": user})
}
