package follow

import (
	"social-backend/internal/api"
	"social-backend/internal/errors"
	"social-backend/internal/middleware"
	"social-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService service.FollowServiceInterface
}

func NewFollowHandler(followService service.FollowServiceInterface) *FollowHandler {
	return &FollowHandler{followService}
}

// ToggleFollow 路由参数可能是 :id 或 :targetUserId
func (h *FollowHandler) ToggleFollow(c *gin.Context) {
	target := c.Param("id")
	if target == "" {
		target = c.Param("targetUserId")
	}

	following, err := h.followService.ToggleFollow(c.Request.Context(), middleware.CurrentUserID(c), target)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if following {
		errors.HandleMessage(c, "User followed successfully")
		return
	}
	errors.HandleMessage(c, "User unfollowed successfully")
}

func (h *FollowHandler) GetFollowers(c *gin.Context) {
	users, err := h.followService.GetFollowers(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, users)
}

func (h *FollowHandler) GetFollowing(c *gin.Context) {
	users, err := h.followService.GetFollowing(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), api.PageFromQuery(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, users)
}
