// Package bazi 实现四柱八字排盘：干支历换算、节气月令、真太阳时、
// 五行分布、日主强弱（二元）与喜用神推导。
//
// 本包是纯计算：无 I/O、无全局可变状态，所有静态表在包初始化后只读，
// 可被并发调用方自由共享。
package bazi

import (
	"fmt"
	"strings"
)

// Element 五行
type Element string

const (
	Wood  Element = "wood"
	Fire  Element = "fire"
	Earth Element = "earth"
	Metal Element = "metal"
	Water Element = "water"
)

// allElements 五行固定顺序（木火土金水）
var allElements = [5]Element{Wood, Fire, Earth, Metal, Water}

// Elements 返回五行固定顺序的副本
func Elements() []Element {
	out := make([]Element, len(allElements))
	copy(out, allElements[:])
	return out
}

var elementNames = map[Element]string{
	Wood:  "木",
	Fire:  "火",
	Earth: "土",
	Metal: "金",
	Water: "水",
}

// Chinese 返回五行中文名
func (e Element) Chinese() string {
	name, ok := elementNames[e]
	if !ok {
		panic(fmt.Sprintf("bazi: unknown element %q", string(e)))
	}
	return name
}

// Valid 是否为合法五行
func (e Element) Valid() bool {
	_, ok := elementNames[e]
	return ok
}

// Stem 天干（0=甲 … 9=癸）
type Stem int

const (
	StemJia Stem = iota
	StemYi
	StemBing
	StemDing
	StemWu
	StemJi
	StemGeng
	StemXin
	StemRen
	StemGui
)

var stemNames = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var stemElements = [10]Element{Wood, Wood, Fire, Fire, Earth, Earth, Metal, Metal, Water, Water}

func (s Stem) mustValid() {
	if s < 0 || s > StemGui {
		panic(fmt.Sprintf("bazi: stem index %d out of range", int(s)))
	}
}

// String 返回天干文字
func (s Stem) String() string {
	s.mustValid()
	return stemNames[s]
}

// Element 天干所属五行
func (s Stem) Element() Element {
	s.mustValid()
	return stemElements[s]
}

// MarshalText 以文字形式序列化（JSON 中为 "甲"）
func (s Stem) MarshalText() ([]byte, error) {
	if s < 0 || s > StemGui {
		return nil, fmt.Errorf("bazi: stem index %d out of range", int(s))
	}
	return []byte(stemNames[s]), nil
}

// UnmarshalText 从文字反序列化
func (s *Stem) UnmarshalText(text []byte) error {
	v, ok := ParseStem(string(text))
	if !ok {
		return fmt.Errorf("bazi: unknown stem %q", string(text))
	}
	*s = v
	return nil
}

// ParseStem 解析天干文字
func ParseStem(text string) (Stem, bool) {
	text = strings.TrimSpace(text)
	for i, name := range stemNames {
		if name == text {
			return Stem(i), true
		}
	}
	return 0, false
}

// Branch 地支（0=子 … 11=亥）
type Branch int

const (
	BranchZi Branch = iota
	BranchChou
	BranchYin
	BranchMao
	BranchChen
	BranchSi
	BranchWu
	BranchWei
	BranchShen
	BranchYou
	BranchXu
	BranchHai
)

var branchNames = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// branchElements 地支本气五行（无藏干表时的兜底）
var branchElements = [12]Element{Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water}

func (b Branch) mustValid() {
	if b < 0 || b > BranchHai {
		panic(fmt.Sprintf("bazi: branch index %d out of range", int(b)))
	}
}

// String 返回地支文字
func (b Branch) String() string {
	b.mustValid()
	return branchNames[b]
}

// Element 地支本气五行
func (b Branch) Element() Element {
	b.mustValid()
	return branchElements[b]
}

// HiddenStems 地支藏干（主气/中气/余气），返回副本
func (b Branch) HiddenStems() []HiddenStem {
	b.mustValid()
	src := hiddenStems[b]
	out := make([]HiddenStem, len(src))
	copy(out, src)
	return out
}

// MarshalText 以文字形式序列化（JSON 中为 "子"）
func (b Branch) MarshalText() ([]byte, error) {
	if b < 0 || b > BranchHai {
		return nil, fmt.Errorf("bazi: branch index %d out of range", int(b))
	}
	return []byte(branchNames[b]), nil
}

// UnmarshalText 从文字反序列化
func (b *Branch) UnmarshalText(text []byte) error {
	v, ok := ParseBranch(string(text))
	if !ok {
		return fmt.Errorf("bazi: unknown branch %q", string(text))
	}
	*b = v
	return nil
}

// ParseBranch 解析地支文字
func ParseBranch(text string) (Branch, bool) {
	text = strings.TrimSpace(text)
	for i, name := range branchNames {
		if name == text {
			return Branch(i), true
		}
	}
	return 0, false
}

// HiddenStem 藏干及其权重
type HiddenStem struct {
	Stem   Stem    `json:"stem"`
	Weight float64 `json:"weight"`
}

// Pillar 一柱（天干+地支）
type Pillar struct {
	Stem   Stem   `json:"heavenly_stem"`
	Branch Branch `json:"earthly_branch"`
}

// String 柱的文字表示，如 "甲子"
func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// Element 柱的五行（取天干）
func (p Pillar) Element() Element {
	return p.Stem.Element()
}

// pillarAt 由 60 甲子序号得到干支
func pillarAt(idx60 int) Pillar {
	idx60 = mod(idx60, 60)
	return Pillar{Stem: Stem(idx60 % 10), Branch: Branch(idx60 % 12)}
}

// ParsePillar 解析两字柱文字，如 "甲子"；干支阴阳不配（如 "甲丑"）视为非法
func ParsePillar(text string) (Pillar, bool) {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) != 2 {
		return Pillar{}, false
	}
	s, ok := ParseStem(string(runes[0]))
	if !ok {
		return Pillar{}, false
	}
	b, ok := ParseBranch(string(runes[1]))
	if !ok {
		return Pillar{}, false
	}
	if int(s)%2 != int(b)%2 {
		return Pillar{}, false
	}
	return Pillar{Stem: s, Branch: b}, true
}

// mod 非负取模
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
