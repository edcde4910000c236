// Package narrative 提供按（日柱, 强弱）查询的四段固定叙述。
//
// 叙述表是版本化数据而不是代码：默认表随二进制嵌入，也可从外部文件加载替换。
// 表加载后只读，可并发查询。
package narrative

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"octa-bazi-api/internal/domain/bazi"
	apperrors "octa-bazi-api/pkg/errors"
)

//go:embed data/bazi_four_sentences_mapping.json
var embeddedMapping []byte

// Entry 四段叙述
type Entry struct {
	Nayin             string `json:"纳音"`
	ComfortZone       string `json:"舒适区"`
	EnergySource      string `json:"能量来源"`
	ConflictingEnergy string `json:"相冲能量"`
}

// Section 叙述中的一段（标题+正文）
type Section struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Sections 按固定顺序返回四段
func (e Entry) Sections() []Section {
	return []Section{
		{Title: "纳音", Text: e.Nayin},
		{Title: "舒适区", Text: e.ComfortZone},
		{Title: "能量来源", Text: e.EnergySource},
		{Title: "相冲能量", Text: e.ConflictingEnergy},
	}
}

func (e Entry) complete() bool {
	return e.Nayin != "" && e.ComfortZone != "" && e.EnergySource != "" && e.ConflictingEnergy != ""
}

type components struct {
	Components *Entry `json:"components"`
}

type document struct {
	Version string                           `json:"version"`
	Mapping map[string]map[string]components `json:"mapping"`
}

// Table 叙述表
type Table struct {
	version string
	entries map[string]map[bazi.Label]Entry
}

// Parse 解析叙述表 JSON
//
// 结构：{"version": "...", "mapping": {"甲子": {"身强": {"components": {...}}}}}。
// 缺少 mapping、出现未知日柱/标签、或任一段为空都视为数据损坏。
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.ErrDataIntegrity.WithDetail("narrative mapping is not valid JSON").WithError(err)
	}
	if doc.Mapping == nil {
		return nil, apperrors.ErrDataIntegrity.WithDetail("narrative mapping missing 'mapping' object")
	}

	entries := make(map[string]map[bazi.Label]Entry, len(doc.Mapping))
	for pillarText, byLabel := range doc.Mapping {
		pillar, ok := bazi.ParsePillar(pillarText)
		if !ok || pillar.String() != pillarText {
			return nil, apperrors.ErrDataIntegrity.WithDetail(fmt.Sprintf("unknown day pillar %q in narrative mapping", pillarText))
		}
		labels := make(map[bazi.Label]Entry, len(byLabel))
		for labelText, c := range byLabel {
			label := bazi.Label(labelText)
			if !label.Valid() {
				return nil, apperrors.ErrDataIntegrity.WithDetail(fmt.Sprintf("unknown strength label %q for %s", labelText, pillarText))
			}
			if c.Components == nil || !c.Components.complete() {
				return nil, apperrors.ErrDataIntegrity.WithDetail(fmt.Sprintf("incomplete components for %s / %s", pillarText, labelText))
			}
			labels[label] = *c.Components
		}
		entries[pillarText] = labels
	}

	return &Table{version: doc.Version, entries: entries}, nil
}

// LoadFile 从文件加载叙述表
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ErrDataIntegrity.WithDetail("narrative mapping file unreadable: " + path).WithError(err)
	}
	return Parse(data)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default 返回内嵌的默认叙述表，首次调用时解析一次
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(embeddedMapping)
	})
	return defaultTable, defaultErr
}

// Load path 为空时使用内嵌表，否则从文件加载
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	return LoadFile(path)
}

// Version 数据版本
func (t *Table) Version() string { return t.version }

// Len 日柱数量
func (t *Table) Len() int { return len(t.entries) }

// Complete 是否覆盖 60 甲子 × 2 种标签
func (t *Table) Complete() bool {
	if len(t.entries) != 60 {
		return false
	}
	for _, labels := range t.entries {
		for _, l := range bazi.Labels() {
			if _, ok := labels[l]; !ok {
				return false
			}
		}
	}
	return true
}

// Lookup 按日柱文字与强弱标签查询
//
// 任一参数为空返回 InvalidParam；日柱或组合不存在返回 NarrativeNotFound。
// 标签接受 "身强"/"身弱" 以及 strong/weak。
func (t *Table) Lookup(dayPillar, label string) (Entry, error) {
	dayPillar = strings.TrimSpace(dayPillar)
	label = strings.TrimSpace(label)
	if dayPillar == "" || label == "" {
		return Entry{}, apperrors.ErrInvalidParam.WithDetail("day_pillar and strength label must both be provided")
	}

	byLabel, ok := t.entries[dayPillar]
	if !ok {
		return Entry{}, apperrors.ErrNarrativeNotFound.WithDetail("unsupported day pillar: " + dayPillar)
	}

	key := bazi.Label(label)
	if parsed, ok := bazi.ParseLabel(label); ok {
		key = parsed
	}
	entry, ok := byLabel[key]
	if !ok {
		return Entry{}, apperrors.ErrNarrativeNotFound.WithDetail(fmt.Sprintf("unsupported strength %q for day pillar %q", label, dayPillar))
	}
	return entry, nil
}
