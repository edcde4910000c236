package bazi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStemAndBranchTables(t *testing.T) {
	assert.Equal(t, "甲", StemJia.String())
	assert.Equal(t, "癸", StemGui.String())
	assert.Equal(t, Earth, StemWu.Element())
	assert.Equal(t, Metal, StemXin.Element())

	assert.Equal(t, "子", BranchZi.String())
	assert.Equal(t, "亥", BranchHai.String())
	assert.Equal(t, Fire, BranchWu.Element())
	assert.Equal(t, Earth, BranchWei.Element())
}

func TestHiddenStemWeightsAtMostOne(t *testing.T) {
	for b := BranchZi; b <= BranchHai; b++ {
		hidden := b.HiddenStems()
		require.NotEmpty(t, hidden, b.String())

		var sum float64
		for _, h := range hidden {
			sum += h.Weight
		}
		assert.LessOrEqual(t, sum, 1.0+1e-9, b.String())
		// 主气与地支本气一致
		assert.Equal(t, b.Element(), hidden[0].Stem.Element(), b.String())
	}
}

func TestHiddenStemsReturnsCopy(t *testing.T) {
	h := BranchYin.HiddenStems()
	h[0].Weight = 0
	assert.Equal(t, 0.7, BranchYin.HiddenStems()[0].Weight)
}

func TestInvalidIndexPanics(t *testing.T) {
	assert.Panics(t, func() { _ = Stem(10).String() })
	assert.Panics(t, func() { _ = Stem(-1).Element() })
	assert.Panics(t, func() { _ = Branch(12).HiddenStems() })
	assert.Panics(t, func() { _ = Element("void").Chinese() })
}

func TestParsePillar(t *testing.T) {
	p, ok := ParsePillar("甲子")
	require.True(t, ok)
	assert.Equal(t, Pillar{Stem: StemJia, Branch: BranchZi}, p)

	p, ok = ParsePillar(" 癸亥 ")
	require.True(t, ok)
	assert.Equal(t, "癸亥", p.String())

	for _, bad := range []string{"", "甲", "甲丑", "子甲", "甲子丑", "ab"} {
		_, ok := ParsePillar(bad)
		assert.False(t, ok, bad)
	}
}

func TestPillarAtCoversSixtyCycle(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 60; i++ {
		p := pillarAt(i)
		seen[p.String()] = true
		_, ok := ParsePillar(p.String())
		assert.True(t, ok, p.String())
	}
	assert.Len(t, seen, 60)
	assert.Equal(t, pillarAt(0), pillarAt(60))
	assert.Equal(t, pillarAt(59), pillarAt(-1))
}

func TestPillarJSON(t *testing.T) {
	data, err := json.Marshal(Pillar{Stem: StemBing, Branch: BranchYin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"heavenly_stem":"丙","earthly_branch":"寅"}`, string(data))

	var back Pillar
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Pillar{Stem: StemBing, Branch: BranchYin}, back)

	assert.Error(t, json.Unmarshal([]byte(`{"heavenly_stem":"X","earthly_branch":"寅"}`), &back))
}

func TestCycleIsConsistent(t *testing.T) {
	for _, e := range Elements() {
		c := CycleOf(e)
		assert.Equal(t, e, CycleOf(c.Generator).Leak, "generator of %s must leak into it", e)
		assert.Equal(t, e, CycleOf(c.ControlledBy).Controls, "controller of %s must control it", e)

		distinct := map[Element]bool{e: true, c.Generator: true, c.Leak: true, c.Controls: true, c.ControlledBy: true}
		assert.Len(t, distinct, 5, e)
	}
	assert.Panics(t, func() { CycleOf("void") })
}

func TestSeasonalStrength(t *testing.T) {
	v, ok := SeasonalStrength(BranchYin, Wood)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = SeasonalStrength(BranchChou, Water)
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	v, ok = SeasonalStrength(BranchWei, Fire)
	require.True(t, ok)
	assert.Equal(t, 0.7, v)

	for b := BranchZi; b <= BranchHai; b++ {
		for _, e := range Elements() {
			v, ok := SeasonalStrength(b, e)
			require.True(t, ok, "%s/%s", b, e)
			assert.True(t, v >= 0 && v <= 1, "%s/%s", b, e)
		}
	}
}

func TestFirstMonthStem(t *testing.T) {
	cases := map[Stem]Stem{
		StemJia: StemBing, StemJi: StemBing,
		StemYi: StemWu, StemGeng: StemWu,
		StemBing: StemGeng, StemXin: StemGeng,
		StemDing: StemRen, StemRen: StemRen,
		StemWu: StemJia, StemGui: StemJia,
	}
	for year, want := range cases {
		assert.Equal(t, want, FirstMonthStem(year), year.String())
	}
}
