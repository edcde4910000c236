// Package redis 提供分析缓存、限流与档案事件流共用的 Redis 客户端
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"octa-bazi-api/internal/config"
	"octa-bazi-api/pkg/logger"
)

var tracer = otel.Tracer("redis")

// connectTimeout 启动时探活的超时
const connectTimeout = 5 * time.Second

// Client Redis 客户端
type Client struct {
	rdb  *redis.Client
	addr string
}

// NewClient 连接 Redis 并探活，失败时关闭连接池并返回错误
//
// 调用方（wire）据此决定降级：缓存、事件与限流全部关闭，排盘照常。
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	ctx, span := tracer.Start(ctx, "redis.Connect")
	defer span.End()

	addr := cfg.Addr()
	span.SetAttributes(attribute.String("redis.addr", addr), attribute.Int("redis.db", cfg.DB))

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		span.RecordError(err)
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	logger.Info(ctx, "redis connected", "addr", addr, "db", cfg.DB, "pool_size", cfg.PoolSize)
	return &Client{rdb: rdb, addr: addr}, nil
}

// Redis 底层客户端，供事件流生产者使用
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close 关闭连接池
func (c *Client) Close() error {
	return c.rdb.Close()
}

// HealthCheck 就绪探针使用的 PING
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redis.HealthCheck")
	defer span.End()

	result, err := c.rdb.Ping(ctx).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis %s health check: %w", c.addr, err)
	}
	if result != "PONG" {
		return fmt.Errorf("redis %s: unexpected ping response %q", c.addr, result)
	}
	return nil
}

// IsNil 是否为键不存在
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
