package bazi

import "math"

// 五行分布权重
const (
	stemWeight        = 1.0
	yearBranchWeight  = 1.0
	monthBranchWeight = 1.5
	dayBranchWeight   = 1.2
	hourBranchWeight  = 1.0
)

// ElementProfile 五行百分比，合计 100（两位小数舍入误差内）
type ElementProfile struct {
	Wood  float64 `json:"wood"`
	Fire  float64 `json:"fire"`
	Earth float64 `json:"earth"`
	Metal float64 `json:"metal"`
	Water float64 `json:"water"`
}

// Get 取某五行百分比
func (p ElementProfile) Get(e Element) float64 {
	switch e {
	case Wood:
		return p.Wood
	case Fire:
		return p.Fire
	case Earth:
		return p.Earth
	case Metal:
		return p.Metal
	case Water:
		return p.Water
	}
	panic("bazi: unknown element " + string(e))
}

// Sum 五项之和
func (p ElementProfile) Sum() float64 {
	return p.Wood + p.Fire + p.Earth + p.Metal + p.Water
}

// Dominant 占比最高的五行，并列时按木火土金水顺序取先者
func (p ElementProfile) Dominant() Element {
	best := allElements[0]
	for _, e := range allElements[1:] {
		if p.Get(e) > p.Get(best) {
			best = e
		}
	}
	return best
}

// Distribute 按藏干、月令与位置权重计算五行分布
//
// 天干统一权重 1.0；地支展开为藏干，每项贡献 位置权重×藏干权重×(0.8+0.4×月令系数)。
func Distribute(c *Chart) ElementProfile {
	scores := make(map[Element]float64, len(allElements))
	monthBranch := c.Month.Branch

	addStem := func(s Stem) {
		scores[s.Element()] += stemWeight
	}
	addBranch := func(b Branch, posWeight float64) {
		for _, h := range hiddenStems[b] {
			e := h.Stem.Element()
			scores[e] += posWeight * h.Weight * (0.8 + 0.4*seasonalOrDefault(monthBranch, e))
		}
	}

	addStem(c.Year.Stem)
	addStem(c.Month.Stem)
	addStem(c.Day.Stem)
	if c.Hour != nil {
		addStem(c.Hour.Stem)
	}

	addBranch(c.Year.Branch, yearBranchWeight)
	addBranch(c.Month.Branch, monthBranchWeight)
	addBranch(c.Day.Branch, dayBranchWeight)
	if c.Hour != nil {
		addBranch(c.Hour.Branch, hourBranchWeight)
	}

	var total float64
	for _, v := range scores {
		total += v
	}
	if total == 0 {
		total = 1
	}

	pct := func(e Element) float64 {
		return round2(scores[e] / total * 100)
	}
	return ElementProfile{
		Wood:  pct(Wood),
		Fire:  pct(Fire),
		Earth: pct(Earth),
		Metal: pct(Metal),
		Water: pct(Water),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
