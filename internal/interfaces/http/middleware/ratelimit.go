package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"octa-bazi-api/internal/infrastructure/persistence/redis"
	"octa-bazi-api/internal/interfaces/http/dto"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
	"octa-bazi-api/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerSecond 每秒请求数
	RequestsPerSecond int
	// Burst 突发容量，大于 RequestsPerSecond 时作为窗口上限
	Burst int
	// KeyPrefix Redis Key 前缀
	KeyPrefix string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 限流中间件
//
// 按调用方（用户 ID，缺省为客户端 IP）与路由模板计数；限流器故障时放行。
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limit := cfg.RequestsPerSecond
	if limit <= 0 {
		limit = 100
	}
	if cfg.Burst > limit {
		limit = cfg.Burst
	}

	return func(c *gin.Context) {
		clientID := c.GetHeader(UserIDHeader)
		if clientID == "" {
			clientID = c.ClientIP()
		}
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		key := redis.BuildRateLimitKey(cfg.KeyPrefix, clientID, route)
		allowed, err := limiter.Allow(c.Request.Context(), key, limit, time.Second)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(route).Inc()
			dto.FromError(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
