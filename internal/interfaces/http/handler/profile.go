package handler

import (
	"github.com/gin-gonic/gin"

	appprofile "octa-bazi-api/internal/application/profile"
	"octa-bazi-api/internal/interfaces/http/dto"
	"octa-bazi-api/internal/interfaces/http/middleware"
	apperrors "octa-bazi-api/pkg/errors"
	"octa-bazi-api/pkg/logger"
)

// ProfileHandler 八字档案处理器
type ProfileHandler struct {
	svc *appprofile.Service
}

// NewProfileHandler 创建档案处理器
func NewProfileHandler(svc *appprofile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// CreateProfile 创建档案
// @Summary 创建八字档案
// @Description 排盘并保存档案，新档案成为当前激活档案
// @Tags Profiles
// @Accept json
// @Produce json
// @Param X-User-ID header string true "用户 ID"
// @Param body body dto.CreateProfileRequest true "档案信息"
// @Success 201 {object} dto.Response[dto.ProfileResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	in, err := req.ToCreateInput()
	if err != nil {
		dto.FromError(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), middleware.GetUserIDFromGin(c), in)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	dto.Created(c, dto.ToProfileResponse(p, h.svc.Cooldown()))
}

// ListProfiles 获取档案列表
// @Summary 获取档案列表
// @Tags Profiles
// @Produce json
// @Param X-User-ID header string true "用户 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(10)
// @Success 200 {object} dto.Response[dto.ProfileListResponse]
// @Router /v1/profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	pageReq := dto.BindPage(c)

	result, err := h.svc.List(c.Request.Context(), middleware.GetUserIDFromGin(c), pageReq.Pagination())
	if err != nil {
		h.fail(c, "list", err)
		return
	}

	dto.SuccessWithPage(c, dto.ToProfileListResponse(result.Items, h.svc.Cooldown()), dto.PageMetaOf(result))
}

// GetProfile 获取档案详情
// @Summary 获取档案详情
// @Tags Profiles
// @Produce json
// @Param X-User-ID header string true "用户 ID"
// @Param id path string true "档案 ID"
// @Success 200 {object} dto.Response[dto.ProfileResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), middleware.GetUserIDFromGin(c), dto.BindProfileID(c))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	dto.Success(c, dto.ToProfileResponse(p, h.svc.Cooldown()))
}

// UpdateProfile 修改档案名称或激活状态
// @Summary 修改档案
// @Description 两次修改之间有冷却期，冷却中返回 409
// @Tags Profiles
// @Accept json
// @Produce json
// @Param X-User-ID header string true "用户 ID"
// @Param id path string true "档案 ID"
// @Param body body dto.UpdateProfileRequest true "修改内容"
// @Success 200 {object} dto.Response[dto.ProfileResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/profiles/{id} [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), middleware.GetUserIDFromGin(c), dto.BindProfileID(c), req.ToUpdateInput())
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	dto.Success(c, dto.ToProfileResponse(p, h.svc.Cooldown()))
}

// DeleteProfile 删除档案
// @Summary 删除档案
// @Tags Profiles
// @Param X-User-ID header string true "用户 ID"
// @Param id path string true "档案 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.GetUserIDFromGin(c), dto.BindProfileID(c)); err != nil {
		h.fail(c, "delete", err)
		return
	}
	dto.NoContent(c)
}

// ActivateProfile 切换当前激活档案
// @Summary 激活档案
// @Tags Profiles
// @Produce json
// @Param X-User-ID header string true "用户 ID"
// @Param id path string true "档案 ID"
// @Success 200 {object} dto.Response[dto.ProfileResponse]
// @Router /v1/profiles/{id}/activate [post]
func (h *ProfileHandler) ActivateProfile(c *gin.Context) {
	p, err := h.svc.Activate(c.Request.Context(), middleware.GetUserIDFromGin(c), dto.BindProfileID(c))
	if err != nil {
		h.fail(c, "activate", err)
		return
	}
	dto.Success(c, dto.ToProfileResponse(p, h.svc.Cooldown()))
}

func (h *ProfileHandler) fail(c *gin.Context, op string, err error) {
	if apperrors.AsAppError(err).HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "profile "+op+" failed", err)
	}
	dto.FromError(c, err)
}
