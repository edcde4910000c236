package wire

import (
	"context"

	appbazi "octa-bazi-api/internal/application/bazi"
	appprofile "octa-bazi-api/internal/application/profile"
	"octa-bazi-api/internal/config"
	domainbazi "octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/narrative"
	"octa-bazi-api/internal/infrastructure/messaging"
	"octa-bazi-api/internal/infrastructure/persistence/postgres"
	"octa-bazi-api/internal/infrastructure/persistence/redis"
	"octa-bazi-api/internal/interfaces/http/handler"
	"octa-bazi-api/internal/interfaces/http/middleware"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
)

// ProvideNarrativeTable 提供叙述表，未配置文件时使用内嵌表
func ProvideNarrativeTable(cfg *config.Config) (*narrative.Table, error) {
	return narrative.Load(cfg.Bazi.NarrativeFile)
}

// ProvideCalculator 提供排盘器，按配置注入日柱偏移与节气覆盖表
func ProvideCalculator(cfg *config.Config) (*domainbazi.Calculator, error) {
	opts := []domainbazi.Option{domainbazi.WithDayOffset(cfg.Bazi.DayOffset)}

	if path := cfg.Bazi.SolarTermOverridesFile; path != "" {
		overrides, err := domainbazi.LoadSolarTermOverrides(path)
		if err != nil {
			return nil, apperrors.ErrDataIntegrity.WithDetail("solar term overrides: " + path).WithError(err)
		}
		est, err := domainbazi.NewSolarTermEstimator(overrides)
		if err != nil {
			return nil, apperrors.ErrDataIntegrity.WithDetail("solar term overrides: " + path).WithError(err)
		}
		opts = append(opts, domainbazi.WithSolarTerms(est))
	}
	return domainbazi.NewCalculator(opts...), nil
}

// ProvidePostgresClientOptional 档案持久化启用时提供 PostgreSQL 客户端，连接失败阻止启动
func ProvidePostgresClientOptional(cfg *config.Config) (*postgres.Client, func(), error) {
	if !cfg.Features.ProfilePersistence {
		return nil, func() {}, nil
	}
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional 有功能依赖 Redis 时提供客户端；不可达时降级运行
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Features.NeedsRedis(cfg.Security.RateLimit.Enabled) {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, cache/events/rate limit disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideAnalysisCache 提供分析结果缓存
func ProvideAnalysisCache(cfg *config.Config, client *redis.Client) appbazi.Cache {
	if client == nil || !cfg.Features.AnalysisCache {
		return nil
	}
	return redis.NewAnalysisCache(client)
}

// ProvideBaziService 提供排盘应用服务
func ProvideBaziService(cfg *config.Config, calc *domainbazi.Calculator, table *narrative.Table, cache appbazi.Cache) *appbazi.Service {
	return appbazi.NewService(calc, table, cache, appbazi.Config{
		CacheTTL:  cfg.Bazi.CacheTTL,
		KeyPrefix: cfg.Cache.Redis.KeyPrefix,
	})
}

// ProvideEventPublisher 提供档案事件发布者
func ProvideEventPublisher(cfg *config.Config, client *redis.Client) appprofile.EventPublisher {
	if client == nil || !cfg.Features.ProfileEvents {
		return nil
	}
	return messaging.NewProducer(
		client.Redis(),
		cfg.Messaging.RedisStream.MaxLen,
		messaging.Stream(cfg.Messaging.RedisStream.ProfileStream),
	)
}

// ProvideProfileService 提供档案服务，未启用持久化时为 nil
func ProvideProfileService(cfg *config.Config, pg *postgres.Client, analyzer *appbazi.Service, publisher appprofile.EventPublisher) *appprofile.Service {
	if pg == nil {
		return nil
	}
	return appprofile.NewService(
		postgres.NewProfileRepository(pg),
		postgres.NewTxManager(pg),
		analyzer,
		publisher,
		appprofile.Config{
			Cooldown:         cfg.Bazi.ProfileCooldown,
			DefaultLongitude: cfg.Bazi.DefaultLongitude,
		},
	)
}

// ProvideBaziHandler 提供排盘处理器
func ProvideBaziHandler(cfg *config.Config, svc *appbazi.Service) *handler.BaziHandler {
	return handler.NewBaziHandler(svc, cfg.Bazi.DefaultLongitude)
}

// ProvideProfileHandler 提供档案处理器
func ProvideProfileHandler(svc *appprofile.Service) *handler.ProfileHandler {
	if svc == nil {
		return nil
	}
	return handler.NewProfileHandler(svc)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, table *narrative.Table, pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, table, pg, redisClient)
}

// ProvideRateLimiter 提供限流器
func ProvideRateLimiter(cfg *config.Config, client *redis.Client) middleware.RateLimiter {
	if client == nil || !cfg.Security.RateLimit.Enabled {
		return nil
	}
	return redis.NewRateLimiter(client)
}
