//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"octa-bazi-api/internal/config"
	"octa-bazi-api/internal/interfaces/http/router"
)

// CoreSet 排盘核心提供者集合
var CoreSet = wire.NewSet(
	ProvideNarrativeTable,
	ProvideCalculator,
	ProvideBaziService,
)

// DataSet 可选数据层提供者集合
var DataSet = wire.NewSet(
	ProvidePostgresClientOptional,
	ProvideRedisClientOptional,
	ProvideAnalysisCache,
	ProvideEventPublisher,
	ProvideRateLimiter,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideProfileService,
	ProvideBaziHandler,
	ProvideProfileHandler,
	ProvideHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		CoreSet,
		DataSet,
		RouterSet,
	)
	return nil, nil, nil
}
