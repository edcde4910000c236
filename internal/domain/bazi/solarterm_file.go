package bazi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// solarTermFile 覆盖表文件格式
//
//	years:
//	  2024:
//	    立春: 2024-02-04
//	    惊蛰: 2024-03-05
//	    ...
type solarTermFile struct {
	Years map[int]map[string]string `yaml:"years"`
}

// ParseSolarTermOverrides 解析 YAML 覆盖表
func ParseSolarTermOverrides(data []byte) (SolarTermOverrides, error) {
	var raw solarTermFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode solar term overrides: %w", err)
	}

	out := make(SolarTermOverrides, len(raw.Years))
	for year, terms := range raw.Years {
		parsed := make(map[SolarTerm]Date, len(terms))
		for name, value := range terms {
			term, ok := ParseSolarTerm(name)
			if !ok {
				return nil, fmt.Errorf("solar term overrides for %d: unknown term %q", year, name)
			}
			d, err := ParseDate(value)
			if err != nil {
				return nil, fmt.Errorf("solar term overrides for %d: %w", year, err)
			}
			parsed[term] = d
		}
		out[year] = parsed
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadSolarTermOverrides 从文件加载覆盖表
func LoadSolarTermOverrides(path string) (SolarTermOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read solar term overrides: %w", err)
	}
	return ParseSolarTermOverrides(data)
}
