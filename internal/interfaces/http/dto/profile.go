package dto

import (
	"encoding/json"
	"strings"
	"time"

	appprofile "octa-bazi-api/internal/application/profile"
	"octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/entity"
	apperrors "octa-bazi-api/pkg/errors"
)

// CreateProfileRequest 创建档案请求
type CreateProfileRequest struct {
	Name          string `json:"name,omitempty"`
	BirthDate     string `json:"birth_date" binding:"required"`
	BirthTime     string `json:"birth_time,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	BirthLocation string `json:"birth_location" binding:"required"`
	Gender        string `json:"gender" binding:"required"`
}

// ToCreateInput 转为档案服务输入，业务校验由服务层负责
func (r *CreateProfileRequest) ToCreateInput() (appprofile.CreateInput, error) {
	in := appprofile.CreateInput{
		Name:          r.Name,
		Timezone:      strings.TrimSpace(r.Timezone),
		BirthLocation: r.BirthLocation,
		Gender:        r.Gender,
	}

	d, err := bazi.ParseDate(strings.TrimSpace(r.BirthDate))
	if err != nil {
		return in, apperrors.ErrInvalidParam.WithDetail("birth_date must be YYYY-MM-DD")
	}
	in.BirthDate = d

	if s := strings.TrimSpace(r.BirthTime); s != "" {
		t, err := bazi.ParseTimeOfDay(s)
		if err != nil {
			return in, apperrors.ErrInvalidParam.WithDetail("birth_time must be HH:MM or HH:MM:SS")
		}
		in.BirthTime = &t
	}
	return in, nil
}

// UpdateProfileRequest 修改档案请求
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ToUpdateInput 转为档案服务输入
func (r *UpdateProfileRequest) ToUpdateInput() appprofile.UpdateInput {
	return appprofile.UpdateInput{Name: r.Name, IsActive: r.IsActive}
}

// ProfileResponse 档案响应
type ProfileResponse struct {
	ProfileID       string          `json:"profile_id"`
	Name            string          `json:"name,omitempty"`
	BirthDate       string          `json:"birth_date"`
	BirthTime       string          `json:"birth_time,omitempty"`
	Timezone        string          `json:"timezone,omitempty"`
	BirthLocation   string          `json:"birth_location"`
	Longitude       float64         `json:"longitude"`
	Gender          string          `json:"gender"`
	DayPillar       string          `json:"day_pillar"`
	DayMaster       string          `json:"day_master"`
	StrengthLabel   string          `json:"strength_label"`
	StrengthScore   float64         `json:"strength_score"`
	LuckyElements   []string        `json:"lucky_elements"`
	UnluckyElements []string        `json:"unlucky_elements"`
	LuckyDirections []string        `json:"lucky_directions"`
	LuckyColors     []string        `json:"lucky_colors"`
	Chart           json.RawMessage `json:"chart,omitempty"`
	Narrative       json.RawMessage `json:"narrative,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
	CooldownEndsAt  string          `json:"cooldown_ends_at,omitempty"`
}

// ProfileListResponse 档案列表响应
type ProfileListResponse struct {
	Profiles []*ProfileResponse `json:"profiles"`
}

// ToProfileResponse 转换档案，cooldown 为修改冷却期
func ToProfileResponse(p *entity.BaziProfile, cooldown time.Duration) *ProfileResponse {
	if p == nil {
		return nil
	}
	resp := &ProfileResponse{
		ProfileID:       p.ID,
		Name:            p.Name,
		BirthDate:       p.BirthDate.Format("2006-01-02"),
		BirthTime:       p.BirthTime,
		Timezone:        p.Timezone,
		BirthLocation:   p.BirthLocation,
		Longitude:       p.Longitude,
		Gender:          string(p.Gender),
		DayPillar:       p.DayPillar,
		DayMaster:       p.DayMaster,
		StrengthLabel:   p.StrengthLabel,
		StrengthScore:   roundTo(p.StrengthScore, 1),
		LuckyElements:   nonNil(p.LuckyElements),
		UnluckyElements: nonNil(p.UnluckyElements),
		LuckyDirections: nonNil(p.LuckyDirections),
		LuckyColors:     nonNil(p.LuckyColors),
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
	if len(p.Chart) > 0 {
		resp.Chart = json.RawMessage(p.Chart)
	}
	if len(p.Narrative) > 0 {
		resp.Narrative = json.RawMessage(p.Narrative)
	}
	if p.LastModifiedAt != nil {
		resp.CooldownEndsAt = p.CooldownEndsAt(cooldown).Format(time.RFC3339)
	}
	return resp
}

// ToProfileListResponse 转换档案列表
func ToProfileListResponse(profiles []*entity.BaziProfile, cooldown time.Duration) *ProfileListResponse {
	out := make([]*ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, ToProfileResponse(p, cooldown))
	}
	return &ProfileListResponse{Profiles: out}
}
