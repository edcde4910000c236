package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"octa-bazi-api/internal/interfaces/http/dto"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
)

// Recovery Panic 恢复中间件
//
// 排盘核心对表缺项直接 panic，这里统一转为 500。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
					Error:   &dto.ErrorDetail{ErrorCode: string(apperrors.CodeInternalError)},
					TraceID: c.GetString(dto.TraceIDKey),
				})
			}
		}()

		c.Next()
	}
}
