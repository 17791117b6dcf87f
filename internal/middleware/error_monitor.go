package middleware

import (
	"strconv"
	"sync"

	"social-backend/internal/errors"
	"social-backend/internal/metrics"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitor 按 HTTP 状态码统计错误响应
type ErrorMonitor struct {
	errorCounts map[int]int
	mu          sync.RWMutex
}

func NewErrorMonitor() *ErrorMonitor {
	return &ErrorMonitor{
		errorCounts: make(map[int]int),
	}
}

func (m *ErrorMonitor) RecordError(status int) {
	m.mu.Lock()
	m.errorCounts[status]++
	m.mu.Unlock()
	metrics.HTTPError(strconv.Itoa(status))
}

func (m *ErrorMonitor) GetErrorCounts() map[int]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[int]int, len(m.errorCounts))
	for status, count := range m.errorCounts {
		counts[status] = count
	}
	return counts
}

func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			status, message := errors.StatusOf(e.Err)
			monitor.RecordError(status)

			fields := []zap.Field{
				zap.Int("status", status),
				zap.String("message", message),
				zap.Error(e.Err),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			}
			if status >= 500 {
				util.Logger.Error("请求处理错误", fields...)
			} else {
				util.Logger.Info("请求被拒绝", fields...)
			}
		}
	}
}
