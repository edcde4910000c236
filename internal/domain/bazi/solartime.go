package bazi

import (
	"math"
	"time"
)

// TrueSolarTime 法定时间 → 真太阳时
//
// zoned 为 true 时以 wall 自带的 UTC 偏移定标准经线，否则按 round(经度/15) 估算时区。
// 结果 = wall + 4·(经度−标准经线) 分钟 + 均时差。只用于定时支，不改变年月日柱。
func TrueSolarTime(wall time.Time, longitude float64, zoned bool) time.Time {
	var offsetHours float64
	if zoned {
		_, offset := wall.Zone()
		offsetHours = math.RoundToEven(float64(offset) / 3600.0)
	} else {
		offsetHours = math.RoundToEven(longitude / 15.0)
	}

	meridian := 15.0 * offsetHours
	correction := 4.0*(longitude-meridian) + EquationOfTime(wall.YearDay())
	return wall.Add(time.Duration(correction * float64(time.Minute)))
}

// EquationOfTime 均时差（分钟），两阶傅里叶近似
func EquationOfTime(dayOfYear int) float64 {
	b := 2 * math.Pi * float64(dayOfYear-81) / 364.0
	return 229.18 * (0.000075 +
		0.001868*math.Cos(b) -
		0.032077*math.Sin(b) -
		0.014615*math.Cos(2*b) -
		0.040849*math.Sin(2*b))
}

// HourBranch 时支：23:00–00:59 为子，其后每两小时一支
func HourBranch(hour, minute int) Branch {
	t := hour*60 + minute
	if t >= 23*60 || t < 60 {
		return BranchZi
	}
	return Branch((t + 60) / 120)
}

// HourStem 时干 = (2×日干 + 时支) mod 10
func HourStem(dayStem Stem, hourBranch Branch) Stem {
	dayStem.mustValid()
	hourBranch.mustValid()
	return Stem((2*int(dayStem) + int(hourBranch)) % 10)
}
