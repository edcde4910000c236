package bazi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess(t *testing.T) {
	cst := time.FixedZone("CST", 8*3600)
	est := time.FixedZone("EST", -5*3600)

	cases := []struct {
		name     string
		input    BirthInput
		score    float64
		label    Label
		seasonal float64
		root     float64
		stem     float64
	}{
		{
			name:  "fire day master in zi month",
			input: BirthInput{Date: NewDate(1990, time.January, 1)},
			score: 78.92, label: LabelStrong, seasonal: 0.6, root: 2.22, stem: 2.0,
		},
		{
			name:  "wood day master in yin month",
			input: BirthInput{Date: NewDate(2024, time.February, 10)},
			score: 87.68, label: LabelStrong, seasonal: 3.0, root: 2.13, stem: 1.15,
		},
		{
			name:  "metal day master in wei month",
			input: BirthInput{Date: NewDate(1995, time.August, 8)},
			score: 60.98, label: LabelStrong, seasonal: 0.9, root: 1.68, stem: -0.75,
		},
		{
			name: "with hour pillar",
			input: BirthInput{
				Date: NewDate(1990, time.May, 15), Time: &TimeOfDay{Hour: 14, Minute: 30},
				Zone: cst, Longitude: ptr(116.4),
			},
			score: 85.82, label: LabelStrong, seasonal: 0.9, root: 2.07, stem: 3.0,
		},
		{
			name: "weak water day master",
			input: BirthInput{
				Date: NewDate(1985, time.October, 20), Time: &TimeOfDay{Hour: 8},
				Zone: est, Longitude: ptr(-74.0),
			},
			score: 53.3, label: LabelWeak, seasonal: 0.9, root: 1.2, stem: -1.55,
		},
		{
			name:  "weak metal day master",
			input: BirthInput{Date: NewDate(1954, time.April, 4)},
			score: 47.9, label: LabelWeak,
		},
		{
			name:  "clamped at the top",
			input: BirthInput{Date: NewDate(1962, time.December, 20)},
			score: 100, label: LabelStrong,
		},
	}

	calc := newTestCalculator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chart, err := calc.ComputeChart(tc.input)
			require.NoError(t, err)

			got := Assess(chart)
			assert.InDelta(t, tc.score, got.Score, 1e-6)
			assert.Equal(t, tc.label, got.Label)
			if tc.seasonal != 0 || tc.root != 0 || tc.stem != 0 {
				assert.InDelta(t, tc.seasonal, got.Seasonal, 1e-9)
				assert.InDelta(t, tc.root, got.Root, 1e-9)
				assert.InDelta(t, tc.stem, got.Stem, 1e-9)
			}
		})
	}
}

// 55 是人为设定的分界，这里把它当作可调边界来测试
func TestLabelForThresholdBoundary(t *testing.T) {
	assert.Equal(t, LabelStrong, labelFor(StrengthThreshold))
	assert.Equal(t, LabelWeak, labelFor(StrengthThreshold-1e-9))
	assert.Equal(t, LabelStrong, labelFor(StrengthThreshold+1e-9))
	assert.Equal(t, LabelWeak, labelFor(0))
	assert.Equal(t, LabelStrong, labelFor(100))
}

func TestAssessScoreRangeAndLabelRule(t *testing.T) {
	calc := newTestCalculator()
	d := NewDate(1900, time.January, 1)
	end := NewDate(2025, time.January, 1)
	for ; d.Before(end); d = d.AddDays(41) {
		chart, err := calc.ComputeChart(BirthInput{Date: d, Time: &TimeOfDay{Hour: 9, Minute: 5}, Longitude: ptr(121.5)})
		require.NoError(t, err)

		a := Assess(chart)
		require.GreaterOrEqual(t, a.Score, 0.0, d.String())
		require.LessOrEqual(t, a.Score, 100.0, d.String())
		assert.Equal(t, a.Score >= StrengthThreshold, a.Label == LabelStrong, d.String())
	}
}

func TestAssessIgnoresAbsentHour(t *testing.T) {
	chart := &Chart{
		Year:      Pillar{Stem: StemJia, Branch: BranchZi},
		Month:     Pillar{Stem: StemBing, Branch: BranchYin},
		Day:       Pillar{Stem: StemJia, Branch: BranchChen},
		DayMaster: StemJia,
	}
	without := Assess(chart)

	chart.Hour = &Pillar{Stem: StemGeng, Branch: BranchShen}
	with := Assess(chart)

	// 庚申时：庚克甲扣分，申中壬水为印加分
	assert.InDelta(t, without.Stem-1.1, with.Stem, 1e-9)
	assert.InDelta(t, without.Root+0.8*0.2, with.Root, 1e-9)
}

func TestParseLabel(t *testing.T) {
	cases := map[string]Label{
		"身强":     LabelStrong,
		"身弱":     LabelWeak,
		"strong": LabelStrong,
		" Weak ": LabelWeak,
	}
	for in, want := range cases {
		got, ok := ParseLabel(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", "中和", "very strong"} {
		_, ok := ParseLabel(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, "strong", LabelStrong.English())
	assert.Equal(t, "weak", LabelWeak.English())
}
