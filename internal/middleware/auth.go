package middleware

import (
	"context"
	"strings"
	"time"

	"social-backend/internal/errors"
	"social-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID     = "user_id"
	ContextExternalID = "external_id"
)

// IdentityResolver 将认证服务的外部身份映射为内部用户 ID
type IdentityResolver interface {
	ResolveExternalID(ctx context.Context, externalID string) (string, error)
}

// AuthConfig 令牌校验参数
type AuthConfig struct {
	Secret  string
	Issuer  string
	Timeout time.Duration
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// IdentityMiddleware 只校验令牌并写入外部身份，用于首次同步用户
func IdentityMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized - you must be logged in"))
			c.Abort()
			return
		}
		externalID, err := util.ValidateToken(cfg.Secret, cfg.Issuer, token)
		if err != nil {
			util.Logger.Warn("令牌校验失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Invalid or expired token", err))
			c.Abort()
			return
		}
		c.Set(ContextExternalID, externalID)
		c.Next()
	}
}

// AuthMiddleware 校验令牌并解析出内部用户 ID
func AuthMiddleware(cfg AuthConfig, users IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Timeout > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Timeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
		}

		token, ok := bearerToken(c)
		if !ok {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized - you must be logged in"))
			c.Abort()
			return
		}

		externalID, err := util.ValidateToken(cfg.Secret, cfg.Issuer, token)
		if err != nil {
			util.Logger.Warn("令牌校验失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Invalid or expired token", err))
			c.Abort()
			return
		}

		userID, err := users.ResolveExternalID(c.Request.Context(), externalID)
		if err != nil {
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextExternalID, externalID)
		c.Set(ContextUserID, userID)

		select {
		case <-c.Request.Context().Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "Request timeout"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

// CurrentUserID 返回认证后的内部用户 ID，未认证时为空串
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func CurrentExternalID(c *gin.Context) string {
	return c.GetString(ContextExternalID)
}
