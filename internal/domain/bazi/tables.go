package bazi

// hiddenStems 地支藏干表（主气/中气/余气）
var hiddenStems = [12][]HiddenStem{
	BranchZi:   {{StemGui, 1.0}},
	BranchChou: {{StemJi, 0.6}, {StemGui, 0.2}, {StemXin, 0.2}},
	BranchYin:  {{StemJia, 0.7}, {StemBing, 0.2}, {StemWu, 0.1}},
	BranchMao:  {{StemYi, 1.0}},
	BranchChen: {{StemWu, 0.6}, {StemYi, 0.2}, {StemGui, 0.2}},
	BranchSi:   {{StemBing, 0.7}, {StemWu, 0.2}, {StemGeng, 0.1}},
	BranchWu:   {{StemDing, 0.7}, {StemJi, 0.3}},
	BranchWei:  {{StemJi, 0.6}, {StemDing, 0.2}, {StemYi, 0.2}},
	BranchShen: {{StemGeng, 0.7}, {StemRen, 0.2}, {StemWu, 0.1}},
	BranchYou:  {{StemXin, 1.0}},
	BranchXu:   {{StemWu, 0.6}, {StemXin, 0.2}, {StemDing, 0.2}},
	BranchHai:  {{StemRen, 0.7}, {StemJia, 0.3}},
}

// defaultSeasonal 季节表缺项时的系数
const defaultSeasonal = 0.4

var (
	springSeason = map[Element]float64{Wood: 1.0, Fire: 0.7, Water: 0.4, Metal: 0.2, Earth: 0.3}
	summerSeason = map[Element]float64{Fire: 1.0, Earth: 0.7, Wood: 0.3, Metal: 0.3, Water: 0.2}
	autumnSeason = map[Element]float64{Metal: 1.0, Water: 0.7, Earth: 0.4, Fire: 0.3, Wood: 0.2}
	winterSeason = map[Element]float64{Water: 1.0, Wood: 0.7, Metal: 0.3, Earth: 0.3, Fire: 0.2}
	chenXuSeason = map[Element]float64{Earth: 1.0, Metal: 0.7, Fire: 0.5, Wood: 0.4, Water: 0.3}
	chouSeason   = map[Element]float64{Earth: 1.0, Metal: 0.7, Water: 0.5, Wood: 0.3, Fire: 0.3}
	weiSeason    = map[Element]float64{Earth: 1.0, Fire: 0.7, Wood: 0.5, Metal: 0.3, Water: 0.3}
)

// seasonalTable 月支 → 五行旺衰系数
var seasonalTable = [12]map[Element]float64{
	BranchYin:  springSeason,
	BranchMao:  springSeason,
	BranchSi:   summerSeason,
	BranchWu:   summerSeason,
	BranchShen: autumnSeason,
	BranchYou:  autumnSeason,
	BranchHai:  winterSeason,
	BranchZi:   winterSeason,
	BranchChen: chenXuSeason,
	BranchXu:   chenXuSeason,
	BranchChou: chouSeason,
	BranchWei:  weiSeason,
}

// SeasonalStrength 月支下某五行的旺衰系数，第二个返回值表示表中是否有该项
func SeasonalStrength(monthBranch Branch, e Element) (float64, bool) {
	monthBranch.mustValid()
	v, ok := seasonalTable[monthBranch][e]
	return v, ok
}

// seasonalOrDefault 查表，缺项取默认值
func seasonalOrDefault(monthBranch Branch, e Element) float64 {
	if v, ok := SeasonalStrength(monthBranch, e); ok {
		return v
	}
	return defaultSeasonal
}

// Cycle 五行生克关系
//
// Generator 生我者；Leak 我生者（泄）；Controls 我克者；ControlledBy 克我者。
type Cycle struct {
	Generator    Element `json:"generator"`
	Leak         Element `json:"leak"`
	Controls     Element `json:"controls"`
	ControlledBy Element `json:"controlled_by"`
}

var cycles = map[Element]Cycle{
	Wood:  {Generator: Water, Leak: Fire, Controls: Earth, ControlledBy: Metal},
	Fire:  {Generator: Wood, Leak: Earth, Controls: Metal, ControlledBy: Water},
	Earth: {Generator: Fire, Leak: Metal, Controls: Water, ControlledBy: Wood},
	Metal: {Generator: Earth, Leak: Water, Controls: Wood, ControlledBy: Fire},
	Water: {Generator: Metal, Leak: Wood, Controls: Fire, ControlledBy: Earth},
}

// CycleOf 返回五行的生克邻居，未知五行视为编程错误
func CycleOf(e Element) Cycle {
	c, ok := cycles[e]
	if !ok {
		panic("bazi: no cycle entry for element " + string(e))
	}
	return c
}

var elementDirections = map[Element][]string{
	Wood:  {"east", "southeast"},
	Fire:  {"south"},
	Earth: {"center", "northeast", "southwest"},
	Metal: {"west", "northwest"},
	Water: {"north"},
}

var elementColors = map[Element][]string{
	Wood:  {"green", "cyan", "turquoise"},
	Fire:  {"red", "orange", "purple"},
	Earth: {"yellow", "brown", "beige"},
	Metal: {"white", "silver", "gold"},
	Water: {"black", "blue", "gray"},
}

// Directions 五行对应方位
func Directions(e Element) []string {
	return append([]string(nil), mustLookup(elementDirections, e, "directions")...)
}

// Colors 五行对应颜色
func Colors(e Element) []string {
	return append([]string(nil), mustLookup(elementColors, e, "colors")...)
}

func mustLookup(table map[Element][]string, e Element, name string) []string {
	v, ok := table[e]
	if !ok {
		panic("bazi: no " + name + " entry for element " + string(e))
	}
	return v
}

// firstMonthStems 年干 → 寅月天干（五虎遁）
var firstMonthStems = [10]Stem{
	StemJia:  StemBing,
	StemYi:   StemWu,
	StemBing: StemGeng,
	StemDing: StemRen,
	StemWu:   StemJia,
	StemJi:   StemBing,
	StemGeng: StemWu,
	StemXin:  StemGeng,
	StemRen:  StemRen,
	StemGui:  StemJia,
}

// FirstMonthStem 年干对应的正月（寅月）天干
func FirstMonthStem(yearStem Stem) Stem {
	yearStem.mustValid()
	return firstMonthStems[yearStem]
}
