package bazi

import (
	"time"

	apperrors "octa-bazi-api/pkg/errors"
)

// Calculator 四柱排盘器
//
// 构造后不可变，可被多个 goroutine 并发使用。
type Calculator struct {
	dayOffset int
	terms     *SolarTermEstimator
	now       func() time.Time
}

// Option 排盘器选项
type Option func(*Calculator)

// WithDayOffset 设置日柱校准偏移
func WithDayOffset(offset int) Option {
	return func(c *Calculator) {
		c.dayOffset = offset
	}
}

// WithSolarTerms 使用带覆盖表的节气推算器
func WithSolarTerms(est *SolarTermEstimator) Option {
	return func(c *Calculator) {
		if est != nil {
			c.terms = est
		}
	}
}

// WithClock 注入时钟，用于"不晚于今天"的校验
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCalculator 创建排盘器
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		dayOffset: DefaultDayOffset,
		terms:     defaultEstimator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DayOffset 当前日柱偏移
func (c *Calculator) DayOffset() int { return c.dayOffset }

// SolarTerms 节气推算器
func (c *Calculator) SolarTerms() *SolarTermEstimator { return c.terms }

// Validate 校验输入：日期合法、不早于 1900-01-01、不晚于今天
//
// "今天"按输入时区判断，无时区时按时钟自身时区。
func (c *Calculator) Validate(in BirthInput) error {
	if !in.Date.Valid() {
		return apperrors.ErrInvalidParam.WithDetail("birth date " + in.Date.String() + " does not exist")
	}
	if in.Date.Year < MinSupportedYear {
		return apperrors.ErrInvalidParam.WithDetail("birth date must be on or after 1900-01-01")
	}
	now := c.now()
	if in.Zone != nil {
		now = now.In(in.Zone)
	}
	if in.Date.After(DateOf(now)) {
		return apperrors.ErrInvalidParam.WithDetail("birth date cannot be in the future")
	}
	if in.Time != nil && !in.Time.Valid() {
		return apperrors.ErrInvalidParam.WithDetail("birth time " + in.Time.String() + " is out of range")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return apperrors.ErrInvalidParam.WithDetail("longitude must be within [-180, 180]")
	}
	return nil
}

// ComputeChart 排四柱并计算五行分布
func (c *Calculator) ComputeChart(in BirthInput) (*Chart, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}

	solarYear := c.terms.SolarYear(in.Date)
	year := pillarAt(YearCycleIndex(solarYear))

	ordinal := c.terms.MonthOrdinal(in.Date)
	month := Pillar{
		Stem:   Stem(mod(int(FirstMonthStem(year.Stem))+ordinal, 10)),
		Branch: Branch(mod(2+ordinal, 12)),
	}

	day := DayPillar(in.Date, c.dayOffset)

	chart := &Chart{
		Year:      year,
		Month:     month,
		Day:       day,
		DayMaster: day.Stem,
	}

	if in.Time != nil && in.Longitude != nil {
		solar := TrueSolarTime(in.wallClock(), *in.Longitude, in.Zone != nil)
		branch := HourBranch(solar.Hour(), solar.Minute())
		chart.Hour = &Pillar{Stem: HourStem(day.Stem, branch), Branch: branch}
		chart.SolarTime = &solar
	}

	chart.Elements = Distribute(chart)
	return chart, nil
}
