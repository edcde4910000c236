// Package bazi 提供排盘应用服务：在纯计算核心之上补充缓存、指标、追踪与日志
package bazi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domainbazi "octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/narrative"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
	"octa-bazi-api/pkg/metrics"
	"octa-bazi-api/pkg/tracer"
)

// Cache 分析结果缓存端口（Redis 实现见 infrastructure/persistence/redis）
type Cache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// Config 应用服务配置
type Config struct {
	CacheTTL  time.Duration
	KeyPrefix string
}

// Analysis 一次完整分析：命盘、强弱、喜忌与叙述
//
// 叙述表没有对应条目时 Narrative 为空、NarrativeMissing 为 true，分析本身仍然成功。
type Analysis struct {
	Chart            *domainbazi.Chart             `json:"chart"`
	Strength         domainbazi.StrengthAssessment `json:"strength"`
	Luck             domainbazi.Luck               `json:"luck"`
	Narrative        *narrative.Entry              `json:"narrative,omitempty"`
	NarrativeMissing bool                          `json:"narrative_missing"`
}

// Service 排盘应用服务
type Service struct {
	calc  *domainbazi.Calculator
	table *narrative.Table
	cache Cache
	cfg   Config
}

// NewService 创建排盘应用服务，cache 为 nil 时不缓存
func NewService(calc *domainbazi.Calculator, table *narrative.Table, cache Cache, cfg Config) *Service {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "octa:bazi"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return &Service{
		calc:  calc,
		table: table,
		cache: cache,
		cfg:   cfg,
	}
}

// Calculator 底层排盘器
func (s *Service) Calculator() *domainbazi.Calculator { return s.calc }

// NarrativeTable 当前叙述表
func (s *Service) NarrativeTable() *narrative.Table { return s.table }

// ComputeChart 排盘
func (s *Service) ComputeChart(ctx context.Context, in domainbazi.BirthInput) (*domainbazi.Chart, error) {
	ctx, span := tracer.Start(ctx, "bazi.ComputeChart")
	defer span.End()

	start := time.Now()
	chart, err := s.calc.ComputeChart(in)
	metrics.ComputeDuration.WithLabelValues("chart").Observe(time.Since(start).Seconds())
	if err != nil {
		tracer.RecordError(span, err)
		logger.Debug(ctx, "chart computation rejected", "birth_date", in.Date.String(), "error", err.Error())
		return nil, err
	}

	metrics.ChartComputationsTotal.WithLabelValues(metrics.BoolLabel(chart.HasHour())).Inc()
	span.SetAttributes(
		tracer.String("bazi.day_pillar", chart.DayPillarText()),
		tracer.Bool("bazi.hour_pillar", chart.HasHour()),
	)
	logger.Debug(ctx, "chart computed",
		"birth_date", in.Date.String(),
		"day_pillar", chart.DayPillarText(),
		"hour_pillar", chart.HasHour(),
	)
	return chart, nil
}

// ClassifyStrength 评估日主强弱
func (s *Service) ClassifyStrength(ctx context.Context, chart *domainbazi.Chart) domainbazi.StrengthAssessment {
	_, span := tracer.Start(ctx, "bazi.ClassifyStrength")
	defer span.End()

	start := time.Now()
	a := domainbazi.Assess(chart)
	metrics.ComputeDuration.WithLabelValues("strength").Observe(time.Since(start).Seconds())
	metrics.StrengthLabelTotal.WithLabelValues(a.Label.English()).Inc()
	span.SetAttributes(tracer.String("bazi.strength_label", a.Label.English()))
	return a
}

// DeriveLuck 由日主与强弱标签推导喜忌，label 必须合法
func (s *Service) DeriveLuck(ctx context.Context, chart *domainbazi.Chart, label domainbazi.Label) domainbazi.Luck {
	_, span := tracer.Start(ctx, "bazi.DeriveLuck")
	defer span.End()

	return domainbazi.DeriveLuck(chart.DayMasterElement(), label)
}

// GetNarrative 查询四段叙述
func (s *Service) GetNarrative(ctx context.Context, dayPillar, label string) (narrative.Entry, error) {
	ctx, span := tracer.Start(ctx, "bazi.GetNarrative")
	defer span.End()

	entry, err := s.table.Lookup(dayPillar, label)
	switch {
	case err == nil:
		metrics.NarrativeLookupsTotal.WithLabelValues("found").Inc()
	case apperrors.Is(err, apperrors.ErrNarrativeNotFound):
		metrics.NarrativeLookupsTotal.WithLabelValues("not_found").Inc()
		logger.Debug(ctx, "narrative not found", "day_pillar", dayPillar, "label", label)
	default:
		metrics.NarrativeLookupsTotal.WithLabelValues("invalid").Inc()
	}
	tracer.RecordError(span, err)
	return entry, err
}

// Analyze 排盘 + 强弱 + 喜忌 + 叙述
//
// 输入先行校验，合法输入的结果按规范化键缓存；缓存故障时降级为直接计算。
func (s *Service) Analyze(ctx context.Context, in domainbazi.BirthInput) (*Analysis, error) {
	ctx, span := tracer.Start(ctx, "bazi.Analyze")
	defer span.End()

	if err := s.calc.Validate(in); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	if s.cache == nil {
		return s.analyze(ctx, in)
	}

	key := s.cacheKey(in)
	var (
		loaded  *Analysis
		loadErr error
	)
	data, err := s.cache.GetOrLoadSafe(ctx, key, s.cfg.CacheTTL, func() (interface{}, error) {
		loaded, loadErr = s.analyze(ctx, in)
		if loadErr != nil {
			return nil, loadErr
		}
		return loaded, nil
	})
	if loadErr != nil {
		tracer.RecordError(span, loadErr)
		return nil, loadErr
	}
	if err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("analysis", "error").Inc()
		logger.Warn(ctx, "analysis cache unavailable, computing directly", "key", key, "error", err.Error())
		return s.analyze(ctx, in)
	}
	if loaded != nil {
		metrics.CacheRequestsTotal.WithLabelValues("analysis", "miss").Inc()
		return loaded, nil
	}

	var cached Analysis
	if err := json.Unmarshal(data, &cached); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("analysis", "error").Inc()
		logger.Warn(ctx, "discarding undecodable cached analysis", "key", key, "error", err.Error())
		return s.analyze(ctx, in)
	}
	metrics.CacheRequestsTotal.WithLabelValues("analysis", "hit").Inc()
	return &cached, nil
}

func (s *Service) analyze(ctx context.Context, in domainbazi.BirthInput) (*Analysis, error) {
	chart, err := s.ComputeChart(ctx, in)
	if err != nil {
		return nil, err
	}
	strength := s.ClassifyStrength(ctx, chart)
	a := &Analysis{
		Chart:    chart,
		Strength: strength,
		Luck:     s.DeriveLuck(ctx, chart, strength.Label),
	}

	entry, err := s.GetNarrative(ctx, chart.DayPillarText(), string(strength.Label))
	switch {
	case err == nil:
		a.Narrative = &entry
	case apperrors.Is(err, apperrors.ErrNarrativeNotFound):
		a.NarrativeMissing = true
	default:
		return nil, err
	}
	return a, nil
}

// cacheKey 规范化的输入键，包含影响结果的全部配置
func (s *Service) cacheKey(in domainbazi.BirthInput) string {
	t, zone, lon := "-", "-", "-"
	if in.Time != nil {
		t = in.Time.String()
	}
	if in.Zone != nil {
		zone = in.Zone.String()
	}
	if in.Longitude != nil {
		lon = strconv.FormatFloat(*in.Longitude, 'f', -1, 64)
	}
	overrides := "approx"
	if s.calc.SolarTerms().HasOverride(in.Date.Year) || s.calc.SolarTerms().HasOverride(in.Date.Year-1) {
		overrides = "exact"
	}
	return fmt.Sprintf("%s:analysis:%s:d%d:%s:%s:%s:%s:%s",
		s.cfg.KeyPrefix, s.table.Version(), s.calc.DayOffset(), overrides, in.Date.String(), t, zone, lon)
}
