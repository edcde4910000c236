package bazi

// Luck 喜用忌讳与对应方位、颜色
type Luck struct {
	Lucky      []Element `json:"lucky_elements"`
	Unlucky    []Element `json:"unlucky_elements"`
	Directions []string  `json:"lucky_directions"`
	Colors     []string  `json:"lucky_colors"`
}

// DeriveLuck 由日主五行与强弱标签推导喜忌
//
// 身强：喜我克、我生，忌同类与生我；身弱：喜同类与生我，忌我生、克我。
// 非法标签视为编程错误。
func DeriveLuck(dayMaster Element, label Label) Luck {
	cycle := CycleOf(dayMaster)

	var lucky, unlucky []Element
	switch label {
	case LabelStrong:
		lucky = []Element{cycle.Controls, cycle.Leak}
		unlucky = []Element{dayMaster, cycle.Generator}
	case LabelWeak:
		lucky = []Element{dayMaster, cycle.Generator}
		unlucky = []Element{cycle.Leak, cycle.ControlledBy}
	default:
		panic("bazi: unknown strength label " + string(label))
	}

	lucky = dedup(lucky)
	return Luck{
		Lucky:      lucky,
		Unlucky:    dedup(unlucky),
		Directions: LuckyDirections(lucky),
		Colors:     LuckyColors(lucky),
	}
}

// LuckyDirections 多个五行的方位并集（去重）
func LuckyDirections(elements []Element) []string {
	var out []string
	for _, e := range elements {
		out = append(out, Directions(e)...)
	}
	return dedup(out)
}

// LuckyColors 多个五行的颜色并集（去重）
func LuckyColors(elements []Element) []string {
	var out []string
	for _, e := range elements {
		out = append(out, Colors(e)...)
	}
	return dedup(out)
}

// dedup 去重并保持原顺序
func dedup[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
