package errors

import (
	stderrors "errors"
	"net/http"

	serviceErrors "social-backend/internal/service/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义错误响应结构，客户端只依赖 error 字段
type ErrorResponse struct {
	Error string `json:"error"`
}

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,

	ErrUnauthorized: http.StatusUnauthorized,
	ErrForbidden:    http.StatusForbidden,
	ErrInvalidToken: http.StatusUnauthorized,

	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrTooManyRequests:  http.StatusTooManyRequests,
	ErrUploadFailed:     http.StatusBadRequest,
}

var serviceStatusMap = map[serviceErrors.ErrorCode]int{
	serviceErrors.ErrDatabase:     http.StatusInternalServerError,
	serviceErrors.ErrNotFound:     http.StatusNotFound,
	serviceErrors.ErrInvalidInput: http.StatusBadRequest,
	serviceErrors.ErrUnauthorized: http.StatusUnauthorized,
	serviceErrors.ErrForbidden:    http.StatusForbidden,
	serviceErrors.ErrInternal:     http.StatusInternalServerError,
	serviceErrors.ErrThirdParty:   http.StatusBadRequest,
}

const internalMessage = "Internal server error"

// StatusOf 返回错误对应的 HTTP 状态码和对外消息
func StatusOf(err error) (int, string) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		status := errorStatusMap[appErr.Code]
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError {
			return status, internalMessage
		}
		return status, appErr.Message
	}

	var svcErr *serviceErrors.ServiceError
	if stderrors.As(err, &svcErr) {
		status := serviceStatusMap[svcErr.Code]
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError {
			return status, internalMessage
		}
		return status, svcErr.Message
	}

	return http.StatusInternalServerError, internalMessage
}

// HandleError 统一处理错误响应，5xx 不向客户端暴露内部细节
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, message := StatusOf(err)
	c.JSON(status, ErrorResponse{Error: message})
}

// HandleSuccess 统一处理成功响应
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// HandleCreated 返回 201
func HandleCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// HandleMessage 返回 {"message": ...}
func HandleMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}
