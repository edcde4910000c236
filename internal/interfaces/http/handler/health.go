// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"octa-bazi-api/internal/domain/narrative"
	"octa-bazi-api/internal/infrastructure/persistence/postgres"
	"octa-bazi-api/internal/infrastructure/persistence/redis"
)

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version  string
	table    *narrative.Table
	postgres healthChecker
	redis    healthChecker
}

// NewHealthHandler 创建健康检查处理器，未启用的依赖传 nil
func NewHealthHandler(version string, table *narrative.Table, pg *postgres.Client, redisClient *redis.Client) *HealthHandler {
	h := &HealthHandler{
		version: version,
		table:   table,
	}
	if pg != nil {
		h.postgres = pg
	}
	if redisClient != nil {
		h.redis = redisClient
	}
	return h
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
// @Summary 就绪检查
// @Description 叙述表与 Postgres（启用时）必需；Redis 故障只降级
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"narrative": {Status: "ok"},
		"postgres":  {Status: "disabled"},
		"redis":     {Status: "disabled"},
	}
	ready := true

	if h.table == nil || !h.table.Complete() {
		checks["narrative"].Status = "error"
		checks["narrative"].Error = "narrative table missing or incomplete"
		ready = false
	}

	g, gctx := errgroup.WithContext(ctx)
	if h.postgres != nil {
		g.Go(func() error {
			probe(gctx, h.postgres, checks["postgres"], "error")
			return nil
		})
	}
	if h.redis != nil {
		g.Go(func() error {
			probe(gctx, h.redis, checks["redis"], "degraded")
			return nil
		})
	}
	_ = g.Wait()

	if checks["postgres"].Status == "error" {
		ready = false
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// probe 执行一次依赖检查，失败时写入 failStatus
func probe(ctx context.Context, checker healthChecker, check *readinessCheck, failStatus string) {
	start := time.Now()
	err := checker.HealthCheck(ctx)
	check.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		check.Status = failStatus
		check.Error = err.Error()
		return
	}
	check.Status = "ok"
}

// Live 存活检查接口
// @Summary 存活检查
// @Description 检查服务是否存活
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
