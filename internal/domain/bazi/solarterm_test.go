package bazi

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproxTermDate(t *testing.T) {
	cases := []struct {
		year int
		term SolarTerm
		want string
	}{
		{1990, LiChun, "1990-02-03"},
		{1990, XiaoHan, "1990-01-10"},
		{1990, QingMing, "1990-04-20"},
		{1990, DaXue, "1990-12-14"},
		{2000, LiChun, "2000-02-02"},
		{2024, XiaoShu, "2024-07-14"},
		{1900, HanLu, "1900-10-18"},
		{2100, JingZhe, "2100-03-07"},
	}
	for _, tc := range cases {
		t.Run(tc.term.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, ApproxTermDate(tc.year, tc.term).String())
		})
	}
}

func TestTermsMonotonic(t *testing.T) {
	est := &SolarTermEstimator{}
	for year := 1900; year <= 2100; year++ {
		terms := est.Terms(year)
		require.Len(t, terms, 12)
		assert.Equal(t, XiaoHan, terms[0].Term)
		for i := 1; i < len(terms); i++ {
			require.True(t, terms[i-1].Date.Before(terms[i].Date),
				"%d: %s (%s) must precede %s (%s)", year,
				terms[i-1].Term, terms[i-1].Date, terms[i].Term, terms[i].Date)
		}
		for _, td := range terms {
			require.True(t, td.Date.Valid(), "%d %s", year, td.Term)
			require.Equal(t, td.Term.Month(), td.Date.Month)
		}
	}
}

func TestApproxTermDateClampsFarYears(t *testing.T) {
	for _, year := range []int{1000, 3000, 4000} {
		for term := LiChun; term < termCount; term++ {
			d := ApproxTermDate(year, term)
			assert.True(t, d.Valid(), "%d %s -> %s", year, term, d)
		}
	}
}

func fullOverride(year int, shift int) map[SolarTerm]Date {
	out := make(map[SolarTerm]Date, termCount)
	for term := LiChun; term < termCount; term++ {
		d := ApproxTermDate(year, term)
		d.Day = d.Day + shift
		out[term] = d
	}
	return out
}

func TestOverridesReplaceFormula(t *testing.T) {
	override := fullOverride(2024, -1)
	override[LiChun] = NewDate(2024, time.February, 4)

	est, err := NewSolarTermEstimator(SolarTermOverrides{2024: override})
	require.NoError(t, err)

	assert.True(t, est.HasOverride(2024))
	assert.False(t, est.HasOverride(2023))
	assert.Equal(t, "2024-02-04", est.Date(2024, LiChun).String())
	assert.Equal(t, "2024-01-09", est.Date(2024, XiaoHan).String())
	assert.Equal(t, ApproxTermDate(2023, LiChun), est.Date(2023, LiChun))

	// 2024-02-03 在覆盖后的立春之前，归入 2023 太阳年
	assert.Equal(t, 2023, est.SolarYear(NewDate(2024, time.February, 3)))
	assert.Equal(t, 2024, est.SolarYear(NewDate(2024, time.February, 4)))
}

func TestOverridesValidation(t *testing.T) {
	partial := fullOverride(2024, 0)
	delete(partial, DaXue)
	_, err := NewSolarTermEstimator(SolarTermOverrides{2024: partial})
	assert.ErrorContains(t, err, "want 12 terms")

	wrongMonth := fullOverride(2024, 0)
	wrongMonth[LiChun] = NewDate(2024, time.March, 4)
	_, err = NewSolarTermEstimator(SolarTermOverrides{2024: wrongMonth})
	assert.ErrorContains(t, err, "must fall in")

	est, err := NewSolarTermEstimator(nil)
	require.NoError(t, err)
	assert.Equal(t, ApproxTermDate(2024, LiChun), est.Date(2024, LiChun))
}

func TestMonthOrdinal(t *testing.T) {
	est := &SolarTermEstimator{}
	cases := []struct {
		date Date
		want int
	}{
		{NewDate(1990, time.January, 1), 10},  // 大雪(1989) 之后、小寒之前：子月
		{NewDate(1990, time.January, 10), 11}, // 小寒当天：丑月
		{NewDate(1990, time.February, 3), 0},  // 立春当天：寅月
		{NewDate(1990, time.February, 2), 11},
		{NewDate(1990, time.May, 15), 3},
		{NewDate(1990, time.December, 14), 10},
	}
	for _, tc := range cases {
		t.Run(tc.date.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, est.MonthOrdinal(tc.date))
		})
	}
}

func TestParseSolarTermOverrides(t *testing.T) {
	data := []byte(`
years:
  2024:
    立春: 2024-02-04
    惊蛰: 2024-03-05
    清明: 2024-04-04
    立夏: 2024-05-05
    芒种: 2024-06-05
    小暑: 2024-07-06
    立秋: 2024-08-07
    白露: 2024-09-07
    寒露: 2024-10-08
    立冬: 2024-11-07
    daxue: 2024-12-06
    xiaohan: 2024-01-06
`)
	overrides, err := ParseSolarTermOverrides(data)
	require.NoError(t, err)

	est, err := NewSolarTermEstimator(overrides)
	require.NoError(t, err)

	got := make(map[string]string)
	for _, td := range est.Terms(2024) {
		got[td.Term.String()] = td.Date.String()
	}
	want := map[string]string{
		"小寒": "2024-01-06", "立春": "2024-02-04", "惊蛰": "2024-03-05", "清明": "2024-04-04",
		"立夏": "2024-05-05", "芒种": "2024-06-05", "小暑": "2024-07-06", "立秋": "2024-08-07",
		"白露": "2024-09-07", "寒露": "2024-10-08", "立冬": "2024-11-07", "大雪": "2024-12-06",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSolarTermOverridesErrors(t *testing.T) {
	_, err := ParseSolarTermOverrides([]byte("years: ["))
	assert.Error(t, err)

	_, err = ParseSolarTermOverrides([]byte("years:\n  2024:\n    春分: 2024-03-20\n"))
	assert.ErrorContains(t, err, "unknown term")

	_, err = ParseSolarTermOverrides([]byte("years:\n  2024:\n    立春: 2024-02-31\n"))
	assert.Error(t, err)

	_, err = LoadSolarTermOverrides("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}
