package bazi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulianDayNumber(t *testing.T) {
	assert.Equal(t, 2451545, JulianDayNumber(2000, 1, 1))
	assert.Equal(t, 2445733, JulianDayNumber(1984, 2, 2))
	assert.Equal(t, 2415021, JulianDayNumber(1900, 1, 1))
	assert.Equal(t, 1, JulianDayNumber(2000, 3, 1)-JulianDayNumber(2000, 2, 29))
	assert.Equal(t, 1, JulianDayNumber(1900, 3, 1)-JulianDayNumber(1900, 2, 28))
}

func TestDayPillar(t *testing.T) {
	cases := []struct {
		date Date
		want string
	}{
		{NewDate(2000, time.January, 1), "戊午"},
		{NewDate(1984, time.February, 2), "丙寅"},
		{NewDate(1990, time.January, 1), "丙寅"},
		{NewDate(1990, time.May, 15), "庚辰"},
		{NewDate(1900, time.January, 1), "甲戌"},
		{NewDate(2024, time.February, 10), "甲辰"},
	}
	for _, tc := range cases {
		t.Run(tc.date.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, DayPillar(tc.date, DefaultDayOffset).String())
		})
	}
}

func TestDayOffsetShiftsCycle(t *testing.T) {
	d := NewDate(2000, time.January, 1)
	base := DayCycleIndex(d, DefaultDayOffset)
	assert.Equal(t, mod(base+1, 60), DayCycleIndex(d, DefaultDayOffset+1))
	assert.Equal(t, mod(base-2, 60), DayCycleIndex(d, 0))
	assert.Equal(t, base, DayCycleIndex(d, DefaultDayOffset+60))
}

func TestConsecutiveDaysAdvanceCycle(t *testing.T) {
	d := NewDate(1999, time.December, 25)
	prev := DayCycleIndex(d, DefaultDayOffset)
	for i := 0; i < 120; i++ {
		d = d.AddDays(1)
		cur := DayCycleIndex(d, DefaultDayOffset)
		require.Equal(t, mod(prev+1, 60), cur, d.String())
		prev = cur
	}
}

func TestYearCycleIndex(t *testing.T) {
	assert.Equal(t, 0, YearCycleIndex(1984))
	assert.Equal(t, "己巳", pillarAt(YearCycleIndex(1989)).String())
	assert.Equal(t, "甲辰", pillarAt(YearCycleIndex(2024)).String())
	assert.Equal(t, "庚子", pillarAt(YearCycleIndex(1900)).String())
	assert.Equal(t, "己亥", pillarAt(YearCycleIndex(1899)).String())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.True(t, d.Valid())
	assert.Equal(t, 60, d.YearDay())
	assert.Equal(t, "2024-03-01", d.AddDays(1).String())

	assert.False(t, NewDate(2023, time.February, 29).Valid())
	assert.False(t, NewDate(2023, 13, 1).Valid())
	assert.False(t, NewDate(2023, time.April, 0).Valid())

	_, err = ParseDate("2024/02/29")
	assert.Error(t, err)

	a := NewDate(2024, time.January, 31)
	b := NewDate(2024, time.February, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
}
