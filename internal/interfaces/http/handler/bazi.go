package handler

import (
	"github.com/gin-gonic/gin"

	appbazi "octa-bazi-api/internal/application/bazi"
	appprofile "octa-bazi-api/internal/application/profile"
	"octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/interfaces/http/dto"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
)

// BaziHandler 排盘处理器
type BaziHandler struct {
	svc              *appbazi.Service
	defaultLongitude float64
}

// NewBaziHandler 创建排盘处理器
func NewBaziHandler(svc *appbazi.Service, defaultLongitude float64) *BaziHandler {
	return &BaziHandler{
		svc:              svc,
		defaultLongitude: defaultLongitude,
	}
}

// Chart 排盘
// @Summary 排盘
// @Description 由出生日期（可选时刻、时区、经度或出生地）计算四柱
// @Tags Bazi
// @Accept json
// @Produce json
// @Param body body dto.BirthRequest true "出生信息"
// @Success 200 {object} dto.Response[dto.ChartResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/bazi/chart [post]
func (h *BaziHandler) Chart(c *gin.Context) {
	var req dto.BirthRequest
	in, ok := h.bindBirth(c, &req)
	if !ok {
		return
	}

	chart, err := h.svc.ComputeChart(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "compute chart", err)
		return
	}
	dto.Success(c, dto.ToChartResponse(chart))
}

// Strength 日主强弱
// @Summary 日主强弱
// @Description 排盘并评估日主强弱
// @Tags Bazi
// @Accept json
// @Produce json
// @Param body body dto.BirthRequest true "出生信息"
// @Success 200 {object} dto.Response[dto.ChartStrengthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/bazi/strength [post]
func (h *BaziHandler) Strength(c *gin.Context) {
	var req dto.BirthRequest
	in, ok := h.bindBirth(c, &req)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	chart, err := h.svc.ComputeChart(ctx, in)
	if err != nil {
		h.fail(c, "compute chart", err)
		return
	}
	assessment := h.svc.ClassifyStrength(ctx, chart)

	dto.Success(c, &dto.ChartStrengthResponse{
		Chart:    dto.ToChartResponse(chart),
		Strength: dto.ToStrengthResponse(assessment),
	})
}

// Luck 喜用忌讳
// @Summary 喜用忌讳
// @Description 排盘并推导喜忌、方位与颜色；strength_label 可覆盖计算出的强弱
// @Tags Bazi
// @Accept json
// @Produce json
// @Param body body dto.LuckRequest true "出生信息"
// @Success 200 {object} dto.Response[dto.ChartLuckResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/bazi/luck [post]
func (h *BaziHandler) Luck(c *gin.Context) {
	var req dto.LuckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	in, err := req.ToBirthInput(h.resolveLongitude)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	var label bazi.Label
	if req.StrengthLabel != "" {
		parsed, ok := bazi.ParseLabel(req.StrengthLabel)
		if !ok {
			dto.FromError(c, apperrors.ErrInvalidParam.WithDetail("strength_label must be 身强/身弱 or strong/weak"))
			return
		}
		label = parsed
	}

	ctx := c.Request.Context()
	chart, err := h.svc.ComputeChart(ctx, in)
	if err != nil {
		h.fail(c, "compute chart", err)
		return
	}
	if label == "" {
		label = h.svc.ClassifyStrength(ctx, chart).Label
	}

	dto.Success(c, &dto.ChartLuckResponse{
		Chart: dto.ToChartResponse(chart),
		Luck:  dto.ToLuckResponse(label, h.svc.DeriveLuck(ctx, chart, label)),
	})
}

// Analysis 完整分析
// @Summary 完整分析
// @Description 命盘、强弱、喜忌与四段叙述；叙述缺失时 narrative_missing 为 true
// @Tags Bazi
// @Accept json
// @Produce json
// @Param body body dto.BirthRequest true "出生信息"
// @Success 200 {object} dto.Response[dto.AnalysisResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/bazi/analysis [post]
func (h *BaziHandler) Analysis(c *gin.Context) {
	var req dto.BirthRequest
	in, ok := h.bindBirth(c, &req)
	if !ok {
		return
	}

	a, err := h.svc.Analyze(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "analyze", err)
		return
	}
	dto.Success(c, dto.ToAnalysisResponse(a))
}

// Narrative 查询四段叙述
// @Summary 查询叙述
// @Tags Bazi
// @Produce json
// @Param day_pillar path string true "日柱，如 甲子"
// @Param label path string true "身强/身弱 或 strong/weak"
// @Success 200 {object} dto.Response[dto.NarrativeResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/bazi/narratives/{day_pillar}/{label} [get]
func (h *BaziHandler) Narrative(c *gin.Context) {
	dayPillar := c.Param("day_pillar")
	label := c.Param("label")

	entry, err := h.svc.GetNarrative(c.Request.Context(), dayPillar, label)
	if err != nil {
		h.fail(c, "get narrative", err)
		return
	}

	if parsed, ok := bazi.ParseLabel(label); ok {
		label = string(parsed)
	}
	dto.Success(c, dto.ToNarrativeResponse(dayPillar, label, entry))
}

func (h *BaziHandler) bindBirth(c *gin.Context, req *dto.BirthRequest) (bazi.BirthInput, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.FromError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return bazi.BirthInput{}, false
	}
	in, err := req.ToBirthInput(h.resolveLongitude)
	if err != nil {
		dto.FromError(c, err)
		return bazi.BirthInput{}, false
	}
	return in, true
}

func (h *BaziHandler) resolveLongitude(location string) float64 {
	lon, _ := appprofile.ResolveLongitude(location, h.defaultLongitude)
	return lon
}

// fail 写错误响应，5xx 记录错误日志
func (h *BaziHandler) fail(c *gin.Context, op string, err error) {
	if apperrors.AsAppError(err).HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "bazi "+op+" failed", err)
	}
	dto.FromError(c, err)
}
