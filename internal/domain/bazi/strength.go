package bazi

import (
	"strings"
)

// StrengthThreshold 身强/身弱分界分数（含）
//
// 这是人为设定的判定常数，不由算法推导。
const StrengthThreshold = 55.0

// Label 日主强弱，只有两种取值
type Label string

const (
	LabelStrong Label = "身强"
	LabelWeak   Label = "身弱"
)

// Labels 全部标签
func Labels() []Label {
	return []Label{LabelStrong, LabelWeak}
}

// ParseLabel 解析标签，接受中文与 strong/weak
func ParseLabel(s string) (Label, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LabelStrong), "strong":
		return LabelStrong, true
	case string(LabelWeak), "weak":
		return LabelWeak, true
	}
	return "", false
}

// English 英文别名
func (l Label) English() string {
	switch l {
	case LabelStrong:
		return "strong"
	case LabelWeak:
		return "weak"
	}
	return ""
}

// Valid 是否为合法标签
func (l Label) Valid() bool {
	return l == LabelStrong || l == LabelWeak
}

// StrengthAssessment 日主强弱评估
//
// Score 未经舍入，Label 严格按 Score ≥ StrengthThreshold 判定；
// Seasonal/Root/Stem 为三项分量，供诊断使用。
type StrengthAssessment struct {
	Score    float64 `json:"score"`
	Label    Label   `json:"label"`
	Seasonal float64 `json:"seasonal"`
	Root     float64 `json:"root"`
	Stem     float64 `json:"stem"`
}

// 得地位置权重
const (
	rootDayWeight   = 2.0
	rootMonthWeight = 1.5
	rootYearWeight  = 1.0
	rootHourWeight  = 1.0
)

// 明干位置权重
const (
	stemMonthWeight = 1.5
	stemDayWeight   = 1.2
	stemYearWeight  = 1.0
	stemHourWeight  = 1.0
)

// Assess 评估日主强弱
//
// 得令 = 月令系数×3；得地 = 各支藏干中比劫（×1.0）与印（×0.8）的加权和；
// 明干 = 比劫 +1.0、印 +0.8、食伤 −0.7、财 −0.9、官杀 −1.1 的加权和。
// 分数 = clamp(50 + 6×(三项之和), 0, 100)。
func Assess(c *Chart) StrengthAssessment {
	dm := c.DayMaster.Element()
	cycle := CycleOf(dm)

	seasonal := seasonalOrDefault(c.Month.Branch, dm) * 3.0

	rootOf := func(b Branch, posWeight float64) float64 {
		var score float64
		for _, h := range hiddenStems[b] {
			switch h.Stem.Element() {
			case dm:
				score += 1.0 * h.Weight * posWeight
			case cycle.Generator:
				score += 0.8 * h.Weight * posWeight
			}
		}
		return score
	}
	root := rootOf(c.Day.Branch, rootDayWeight) +
		rootOf(c.Month.Branch, rootMonthWeight) +
		rootOf(c.Year.Branch, rootYearWeight)
	if c.Hour != nil {
		root += rootOf(c.Hour.Branch, rootHourWeight)
	}

	stemOf := func(s Stem, posWeight float64) float64 {
		switch s.Element() {
		case dm:
			return 1.0 * posWeight
		case cycle.Generator:
			return 0.8 * posWeight
		case cycle.Leak:
			return -0.7 * posWeight
		case cycle.Controls:
			return -0.9 * posWeight
		case cycle.ControlledBy:
			return -1.1 * posWeight
		}
		return 0
	}
	stems := stemOf(c.Month.Stem, stemMonthWeight) +
		stemOf(c.Day.Stem, stemDayWeight) +
		stemOf(c.Year.Stem, stemYearWeight)
	if c.Hour != nil {
		stems += stemOf(c.Hour.Stem, stemHourWeight)
	}

	score := clamp(50.0+6.0*(seasonal+root+stems), 0, 100)
	return StrengthAssessment{
		Score:    score,
		Label:    labelFor(score),
		Seasonal: seasonal,
		Root:     root,
		Stem:     stems,
	}
}

// labelFor 分数 → 标签
func labelFor(score float64) Label {
	if score >= StrengthThreshold {
		return LabelStrong
	}
	return LabelWeak
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
