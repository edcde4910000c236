package dto

import (
	"math"
	"strings"
	"time"

	appbazi "octa-bazi-api/internal/application/bazi"
	"octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/domain/narrative"
	apperrors "octa-bazi-api/pkg/errors"
)

// BirthRequest 排盘请求
type BirthRequest struct {
	BirthDate     string   `json:"birth_date" binding:"required"`
	BirthTime     string   `json:"birth_time,omitempty"`
	Timezone      string   `json:"timezone,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	BirthLocation string   `json:"birth_location,omitempty" binding:"omitempty,max=200"`
}

// LuckRequest 喜忌请求，可指定强弱标签覆盖计算结果
type LuckRequest struct {
	BirthRequest
	StrengthLabel string `json:"strength_label,omitempty"`
}

// ToBirthInput 转为排盘输入
//
// 未给出经度时用 resolve 由出生地估算；出生地也为空则不计算时柱。
func (r *BirthRequest) ToBirthInput(resolve func(location string) float64) (bazi.BirthInput, error) {
	var in bazi.BirthInput

	d, err := bazi.ParseDate(strings.TrimSpace(r.BirthDate))
	if err != nil {
		return in, apperrors.ErrInvalidParam.WithDetail("birth_date must be YYYY-MM-DD")
	}
	in.Date = d

	if s := strings.TrimSpace(r.BirthTime); s != "" {
		t, err := bazi.ParseTimeOfDay(s)
		if err != nil {
			return in, apperrors.ErrInvalidParam.WithDetail("birth_time must be HH:MM or HH:MM:SS")
		}
		in.Time = &t
	}

	if tz := strings.TrimSpace(r.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return in, apperrors.ErrInvalidParam.WithDetail("unknown timezone: " + tz)
		}
		in.Zone = loc
	}

	switch {
	case r.Longitude != nil:
		lon := *r.Longitude
		in.Longitude = &lon
	case strings.TrimSpace(r.BirthLocation) != "" && resolve != nil:
		lon := resolve(r.BirthLocation)
		in.Longitude = &lon
	}
	return in, nil
}

// PillarResponse 一柱
type PillarResponse struct {
	Pillar        string `json:"pillar"`
	HeavenlyStem  string `json:"heavenly_stem"`
	EarthlyBranch string `json:"earthly_branch"`
	Element       string `json:"element"`
}

// ChartResponse 命盘
type ChartResponse struct {
	YearPillar       PillarResponse      `json:"year_pillar"`
	MonthPillar      PillarResponse      `json:"month_pillar"`
	DayPillar        PillarResponse      `json:"day_pillar"`
	HourPillar       *PillarResponse     `json:"hour_pillar,omitempty"`
	DayMaster        string              `json:"day_master"`
	DayMasterElement string              `json:"day_master_element"`
	Elements         bazi.ElementProfile `json:"elements"`
	DominantElement  string              `json:"dominant_element"`
	TrueSolarTime    string              `json:"true_solar_time,omitempty"`
}

// StrengthResponse 强弱评估，分数保留一位小数，分量保留两位
type StrengthResponse struct {
	Score      float64            `json:"score"`
	Label      string             `json:"label"`
	LabelEn    string             `json:"label_en"`
	Components StrengthComponents `json:"components"`
}

// StrengthComponents 强弱分量
type StrengthComponents struct {
	Seasonal float64 `json:"seasonal"`
	Root     float64 `json:"root"`
	Stem     float64 `json:"stem"`
}

// LuckResponse 喜忌
type LuckResponse struct {
	StrengthLabel   string   `json:"strength_label"`
	LuckyElements   []string `json:"lucky_elements"`
	UnluckyElements []string `json:"unlucky_elements"`
	LuckyDirections []string `json:"lucky_directions"`
	LuckyColors     []string `json:"lucky_colors"`
}

// NarrativeResponse 四段叙述
type NarrativeResponse struct {
	DayPillar         string              `json:"day_pillar"`
	Label             string              `json:"label"`
	Nayin             string              `json:"nayin"`
	ComfortZone       string              `json:"comfort_zone"`
	EnergySource      string              `json:"energy_source"`
	ConflictingEnergy string              `json:"conflicting_energy"`
	Sections          []narrative.Section `json:"sections"`
}

// ChartStrengthResponse 命盘与强弱
type ChartStrengthResponse struct {
	Chart    *ChartResponse    `json:"chart"`
	Strength *StrengthResponse `json:"strength"`
}

// ChartLuckResponse 命盘与喜忌
type ChartLuckResponse struct {
	Chart *ChartResponse `json:"chart"`
	Luck  *LuckResponse  `json:"luck"`
}

// AnalysisResponse 完整分析
type AnalysisResponse struct {
	Chart            *ChartResponse     `json:"chart"`
	Strength         *StrengthResponse  `json:"strength"`
	Luck             *LuckResponse      `json:"luck"`
	Narrative        *NarrativeResponse `json:"narrative,omitempty"`
	NarrativeMissing bool               `json:"narrative_missing"`
}

// ToPillarResponse 转换单柱
func ToPillarResponse(p bazi.Pillar) PillarResponse {
	return PillarResponse{
		Pillar:        p.String(),
		HeavenlyStem:  p.Stem.String(),
		EarthlyBranch: p.Branch.String(),
		Element:       string(p.Element()),
	}
}

// ToChartResponse 转换命盘
func ToChartResponse(c *bazi.Chart) *ChartResponse {
	if c == nil {
		return nil
	}
	resp := &ChartResponse{
		YearPillar:       ToPillarResponse(c.Year),
		MonthPillar:      ToPillarResponse(c.Month),
		DayPillar:        ToPillarResponse(c.Day),
		DayMaster:        c.DayMaster.String(),
		DayMasterElement: string(c.DayMasterElement()),
		Elements:         c.Elements,
		DominantElement:  string(c.Elements.Dominant()),
	}
	if c.Hour != nil {
		hp := ToPillarResponse(*c.Hour)
		resp.HourPillar = &hp
	}
	if c.SolarTime != nil {
		resp.TrueSolarTime = c.SolarTime.Format("2006-01-02T15:04:05")
	}
	return resp
}

// ToStrengthResponse 转换强弱评估
func ToStrengthResponse(a bazi.StrengthAssessment) *StrengthResponse {
	return &StrengthResponse{
		Score:   roundTo(a.Score, 1),
		Label:   string(a.Label),
		LabelEn: a.Label.English(),
		Components: StrengthComponents{
			Seasonal: roundTo(a.Seasonal, 2),
			Root:     roundTo(a.Root, 2),
			Stem:     roundTo(a.Stem, 2),
		},
	}
}

// ToLuckResponse 转换喜忌
func ToLuckResponse(label bazi.Label, l bazi.Luck) *LuckResponse {
	return &LuckResponse{
		StrengthLabel:   string(label),
		LuckyElements:   elementNames(l.Lucky),
		UnluckyElements: elementNames(l.Unlucky),
		LuckyDirections: nonNil(l.Directions),
		LuckyColors:     nonNil(l.Colors),
	}
}

// ToNarrativeResponse 转换叙述
func ToNarrativeResponse(dayPillar, label string, e narrative.Entry) *NarrativeResponse {
	return &NarrativeResponse{
		DayPillar:         dayPillar,
		Label:             label,
		Nayin:             e.Nayin,
		ComfortZone:       e.ComfortZone,
		EnergySource:      e.EnergySource,
		ConflictingEnergy: e.ConflictingEnergy,
		Sections:          e.Sections(),
	}
}

// ToAnalysisResponse 转换完整分析
func ToAnalysisResponse(a *appbazi.Analysis) *AnalysisResponse {
	resp := &AnalysisResponse{
		Chart:            ToChartResponse(a.Chart),
		Strength:         ToStrengthResponse(a.Strength),
		Luck:             ToLuckResponse(a.Strength.Label, a.Luck),
		NarrativeMissing: a.NarrativeMissing,
	}
	if a.Narrative != nil {
		resp.Narrative = ToNarrativeResponse(a.Chart.DayPillarText(), string(a.Strength.Label), *a.Narrative)
	}
	return resp
}

func elementNames(es []bazi.Element) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, string(e))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
