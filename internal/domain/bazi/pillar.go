package bazi

import (
	"fmt"
	"time"
)

// TimeOfDay 出生时刻（本地钟表时间）
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second,omitempty"`
}

// ParseTimeOfDay 解析 HH:MM 或 HH:MM:SS
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("parse time %q: want HH:MM or HH:MM:SS", s)
}

// Valid 时刻是否合法
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60 && t.Second >= 0 && t.Second < 60
}

// String 格式化为 HH:MM:SS
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// BirthInput 排盘输入
//
// Zone 为空时视为无时区信息，真太阳时按经度估算时区。
// Time 与 Longitude 同时给出才计算时柱。
type BirthInput struct {
	Date      Date
	Time      *TimeOfDay
	Zone      *time.Location
	Longitude *float64
}

// wallClock 出生时刻的本地时间；无时区时挂在 UTC 上，仅取钟面读数
func (in BirthInput) wallClock() time.Time {
	loc := in.Zone
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(in.Date.Year, in.Date.Month, in.Date.Day, in.Time.Hour, in.Time.Minute, in.Time.Second, 0, loc)
}

// Chart 四柱命盘
type Chart struct {
	Year      Pillar         `json:"year_pillar"`
	Month     Pillar         `json:"month_pillar"`
	Day       Pillar         `json:"day_pillar"`
	Hour      *Pillar        `json:"hour_pillar,omitempty"`
	DayMaster Stem           `json:"day_master"`
	Elements  ElementProfile `json:"elements"`

	// SolarTime 用于定时支的真太阳时，仅在有时柱时给出
	SolarTime *time.Time `json:"true_solar_time,omitempty"`
}

// DayMasterElement 日主五行
func (c *Chart) DayMasterElement() Element {
	return c.DayMaster.Element()
}

// DayPillarText 日柱文字，用于叙述表查询
func (c *Chart) DayPillarText() string {
	return c.Day.String()
}

// HasHour 是否有时柱
func (c *Chart) HasHour() bool {
	return c.Hour != nil
}
