package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"octa-bazi-api/pkg/metrics"
)

var cacheTracer = otel.Tracer("redis.analysis_cache")

// cacheName 指标中的缓存名
const cacheName = "analysis"

// kvStore 缓存读写，测试中替换为内存实现
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisStore struct {
	rdb *redis.Client
}

func (s redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.rdb.Get(ctx, key).Bytes()
}

func (s redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// AnalysisCache 排盘分析结果的 Read-Through 缓存
//
// 键由应用层按规范化输入生成（含叙述表版本、日柱偏移与节气来源），值为分析结果的 JSON。
// 同一键的并发未命中经 singleflight 合并为一次计算。
type AnalysisCache struct {
	store kvStore
	group singleflight.Group
}

// NewAnalysisCache 创建分析缓存
func NewAnalysisCache(client *Client) *AnalysisCache {
	return &AnalysisCache{store: redisStore{rdb: client.rdb}}
}

// GetOrLoadSafe 命中时返回缓存的 JSON，未命中时调用 loader 计算并回写
//
// 读缓存失败直接返回错误，由应用层降级为直接计算；回写失败只记录，不影响结果。
// 合并后的加载与发起请求的生命周期解绑，首个请求被取消不会连累等待同一键的其他请求。
func (c *AnalysisCache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	ctx, span := cacheTracer.Start(ctx, "analysis_cache.GetOrLoad",
		trace.WithAttributes(
			attribute.String("bazi.cache_key", key),
			attribute.Int64("bazi.cache_ttl_ms", ttl.Milliseconds()),
		))
	defer span.End()

	val, err := c.store.Get(ctx, key)
	if err == nil {
		span.SetAttributes(attribute.Bool("bazi.cache_hit", true))
		return val, nil
	}
	if !IsNil(err) {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("bazi.cache_hit", false))

	loadCtx := context.WithoutCancel(ctx)
	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		// 等待期间可能已被其他实例回写
		if val, err := c.store.Get(loadCtx, key); err == nil {
			return val, nil
		}

		data, err := loader()
		if err != nil {
			metrics.CacheLoadsTotal.WithLabelValues(cacheName, "load_error").Inc()
			return nil, err
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			metrics.CacheLoadsTotal.WithLabelValues(cacheName, "load_error").Inc()
			return nil, fmt.Errorf("encode analysis for cache: %w", err)
		}

		if err := c.store.Set(loadCtx, key, encoded, ttl); err != nil {
			metrics.CacheLoadsTotal.WithLabelValues(cacheName, "write_error").Inc()
			span.RecordError(err)
			return encoded, nil
		}
		metrics.CacheLoadsTotal.WithLabelValues(cacheName, "loaded").Inc()
		return encoded, nil
	})

	span.SetAttributes(attribute.Bool("bazi.cache_shared", shared))
	if shared {
		metrics.CacheLoadsTotal.WithLabelValues(cacheName, "shared").Inc()
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result.([]byte), nil
}
