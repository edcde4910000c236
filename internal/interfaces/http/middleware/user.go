package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"octa-bazi-api/internal/interfaces/http/dto"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
)

const (
	// UserIDHeader 调用方用户 ID 头，由上游网关完成认证后注入
	UserIDHeader = "X-User-ID"

	userIDKey       = "user_id"
	maxUserIDLength = 128
)

// RequireUser 要求请求携带用户 ID
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" || len(userID) > maxUserIDLength {
			dto.FromError(c, apperrors.ErrUnauthorized.WithDetail(UserIDHeader+" header is required"))
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserIDFromGin 从 Gin Context 获取用户 ID
func GetUserIDFromGin(c *gin.Context) string {
	return c.GetString(userIDKey)
}
