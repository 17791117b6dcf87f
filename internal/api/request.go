package api

import (
	"strconv"

	"social-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PageFromQuery 读取 page / limit 查询参数，非法值交给服务层按默认值处理
func PageFromQuery(c *gin.Context) service.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return service.Page{Page: page, Limit: limit}
}

// ContentBody 只包含 content 的请求体
type ContentBody struct {
	Content string `json:"content" binding:"notblank"`
}
