package bazi

// DefaultDayOffset 日柱校准偏移
//
// 1984-02-02 的 JDN 为锚点，序号再加此偏移后取模 60。
// 取值 2 与现行万年历对齐；若需对照其他权威历书重新校准，只改这里或通过
// WithDayOffset 注入，算法本身不变。
const DefaultDayOffset = 2

// yearCycleEpoch 甲子年
const yearCycleEpoch = 1984

// MinSupportedYear 节气近似公式自 1900 年起标定，更早的日期不在支持范围
const MinSupportedYear = 1900

var anchorJDN = JulianDayNumber(1984, 2, 2)

// JulianDayNumber 公历（前推格里历）日期 → 儒略日数，纯整数运算
func JulianDayNumber(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

// DayCycleIndex 日柱 60 甲子序号
func DayCycleIndex(d Date, offset int) int {
	return mod(JulianDayNumber(d.Year, int(d.Month), d.Day)-anchorJDN+offset, 60)
}

// DayPillar 日柱
func DayPillar(d Date, offset int) Pillar {
	return pillarAt(DayCycleIndex(d, offset))
}

// YearCycleIndex 干支年序号（入参为已按立春切分后的太阳年）
func YearCycleIndex(solarYear int) int {
	return mod(solarYear-yearCycleEpoch, 60)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
