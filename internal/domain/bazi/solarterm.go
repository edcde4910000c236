package bazi

import (
	"fmt"
	"strings"
	"time"
)

// SolarTerm 十二节（月令分界，不含中气）
type SolarTerm int

const (
	LiChun    SolarTerm = iota // 立春
	JingZhe                    // 惊蛰
	QingMing                   // 清明
	LiXia                      // 立夏
	MangZhong                  // 芒种
	XiaoShu                    // 小暑
	LiQiu                      // 立秋
	BaiLu                      // 白露
	HanLu                      // 寒露
	LiDong                     // 立冬
	DaXue                      // 大雪
	XiaoHan                    // 小寒
	termCount
)

type termSpec struct {
	name   string
	pinyin string
	c      float64
	fix    int
	month  time.Month
}

var termSpecs = [termCount]termSpec{
	LiChun:    {"立春", "lichun", 4.6295, -1, time.February},
	JingZhe:   {"惊蛰", "jingzhe", 6.3826, 3, time.March},
	QingMing:  {"清明", "qingming", 5.59, 15, time.April},
	LiXia:     {"立夏", "lixia", 6.318, 7, time.May},
	MangZhong: {"芒种", "mangzhong", 6.5, 7, time.June},
	XiaoShu:   {"小暑", "xiaoshu", 7.928, 8, time.July},
	LiQiu:     {"立秋", "liqiu", 8.35, 8, time.August},
	BaiLu:     {"白露", "bailu", 8.44, 8, time.September},
	HanLu:     {"寒露", "hanlu", 9.098, 9, time.October},
	LiDong:    {"立冬", "lidong", 8.218, 7, time.November},
	DaXue:     {"大雪", "daxue", 7.9, 7, time.December},
	XiaoHan:   {"小寒", "xiaohan", 6.11, 5, time.January},
}

// String 节气中文名
func (t SolarTerm) String() string {
	if t < 0 || t >= termCount {
		return fmt.Sprintf("SolarTerm(%d)", int(t))
	}
	return termSpecs[t].name
}

// Month 节气所在公历月份
func (t SolarTerm) Month() time.Month {
	return termSpecs[t].month
}

// MarshalText 实现 encoding.TextMarshaler
func (t SolarTerm) MarshalText() ([]byte, error) {
	if t < 0 || t >= termCount {
		return nil, fmt.Errorf("bazi: solar term %d out of range", int(t))
	}
	return []byte(termSpecs[t].name), nil
}

// ParseSolarTerm 解析节气名，支持中文与拼音
func ParseSolarTerm(name string) (SolarTerm, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, spec := range termSpecs {
		if spec.name == name || spec.pinyin == name {
			return SolarTerm(i), true
		}
	}
	return 0, false
}

// SolarTerms 按年内时间顺序返回十二节（小寒在前）
func SolarTerms() []SolarTerm {
	return []SolarTerm{XiaoHan, LiChun, JingZhe, QingMing, LiXia, MangZhong, XiaoShu, LiQiu, BaiLu, HanLu, LiDong, DaXue}
}

// ApproxTermDate 经验公式推算节气日期
//
// day = int(C + 0.2422·y − ⌊y/4⌋) + fix，y = year − 1900；误差约 ±1 天。
// 结果日被夹在当月范围内，保证任意年份都能得到合法日期。
func ApproxTermDate(year int, term SolarTerm) Date {
	spec := termSpecs[term]
	y := year - 1900
	day := int(spec.c+0.2422*float64(y)-float64(floorDiv(y, 4))) + spec.fix
	if day < 1 {
		day = 1
	}
	if last := daysIn(year, spec.month); day > last {
		day = last
	}
	return Date{Year: year, Month: spec.month, Day: day}
}

// TermDate 某节气在某年的日期
type TermDate struct {
	Term SolarTerm `json:"term"`
	Date Date      `json:"date"`
}

// SolarTermOverrides 精确节气表：年份 → 节气 → 日期
//
// 某年一旦出现在覆盖表中，该年全部十二节都以覆盖表为准，不再使用近似公式。
type SolarTermOverrides map[int]map[SolarTerm]Date

// Validate 校验覆盖表：每个年份必须给出全部十二节，且日期落在该年、节气所在月份
func (o SolarTermOverrides) Validate() error {
	for year, terms := range o {
		if len(terms) != int(termCount) {
			return fmt.Errorf("solar term overrides for %d: want %d terms, got %d", year, termCount, len(terms))
		}
		for term, d := range terms {
			if term < 0 || term >= termCount {
				return fmt.Errorf("solar term overrides for %d: unknown term %d", year, int(term))
			}
			if !d.Valid() {
				return fmt.Errorf("solar term overrides for %d: invalid date %s for %s", year, d, term)
			}
			if d.Year != year || d.Month != term.Month() {
				return fmt.Errorf("solar term overrides for %d: %s must fall in %s %d, got %s", year, term, term.Month(), year, d)
			}
		}
	}
	return nil
}

// SolarTermEstimator 节气推算器：覆盖表优先，否则用近似公式
//
// 构造后只读，可并发使用。
type SolarTermEstimator struct {
	overrides SolarTermOverrides
}

// NewSolarTermEstimator 创建推算器，overrides 可为 nil
func NewSolarTermEstimator(overrides SolarTermOverrides) (*SolarTermEstimator, error) {
	if err := overrides.Validate(); err != nil {
		return nil, err
	}
	frozen := make(SolarTermOverrides, len(overrides))
	for year, terms := range overrides {
		cp := make(map[SolarTerm]Date, len(terms))
		for k, v := range terms {
			cp[k] = v
		}
		frozen[year] = cp
	}
	return &SolarTermEstimator{overrides: frozen}, nil
}

var defaultEstimator = &SolarTermEstimator{}

// Date 某年某节气的日期
func (e *SolarTermEstimator) Date(year int, term SolarTerm) Date {
	if term < 0 || term >= termCount {
		panic(fmt.Sprintf("bazi: solar term %d out of range", int(term)))
	}
	if terms, ok := e.overrides[year]; ok {
		return terms[term]
	}
	return ApproxTermDate(year, term)
}

// Terms 某年十二节日期，按时间先后排列（小寒在前）
func (e *SolarTermEstimator) Terms(year int) []TermDate {
	order := SolarTerms()
	out := make([]TermDate, 0, len(order))
	for _, term := range order {
		out = append(out, TermDate{Term: term, Date: e.Date(year, term)})
	}
	return out
}

// HasOverride 该年是否使用覆盖表
func (e *SolarTermEstimator) HasOverride(year int) bool {
	_, ok := e.overrides[year]
	return ok
}

// SolarYear 以立春为岁首的太阳年
func (e *SolarTermEstimator) SolarYear(d Date) int {
	if d.Before(e.Date(d.Year, LiChun)) {
		return d.Year - 1
	}
	return d.Year
}

// MonthOrdinal 月令序号 0..11（0=寅月）
//
// 边界依次为太阳年的立春…大雪、次年小寒、次年立春，共 13 个；
// 若日期不落在任何区间（仅在覆盖表自相矛盾时可能发生）回落为 0。
func (e *SolarTermEstimator) MonthOrdinal(d Date) int {
	yb := e.SolarYear(d)
	boundaries := make([]Date, 0, 13)
	for term := LiChun; term <= DaXue; term++ {
		boundaries = append(boundaries, e.Date(yb, term))
	}
	boundaries = append(boundaries, e.Date(yb+1, XiaoHan), e.Date(yb+1, LiChun))
	for i := 0; i < 12; i++ {
		if !d.Before(boundaries[i]) && d.Before(boundaries[i+1]) {
			return i
		}
	}
	return 0
}
