package profile

import "strings"

// DefaultLongitude 出生地无法识别时的经度（北京）
const DefaultLongitude = 116.4

type cityLongitude struct {
	name      string
	longitude float64
}

// knownCities 按顺序做子串匹配，先匹配者优先
var knownCities = []cityLongitude{
	{"beijing", 116.4},
	{"shanghai", 121.5},
	{"guangzhou", 113.3},
	{"shenzhen", 114.1},
	{"singapore", 103.8},
	{"hong kong", 114.2},
	{"taipei", 121.6},
	{"tokyo", 139.7},
	{"new york", -74.0},
	{"london", -0.13},
	{"paris", 2.35},
	{"san francisco", -122.4},
}

// ResolveLongitude 由出生地文字估算经度
//
// 只识别少量常见城市（不区分大小写的子串匹配），识别不到时返回 fallback，
// 第二个返回值表示是否命中城市表。
func ResolveLongitude(location string, fallback float64) (float64, bool) {
	lower := strings.ToLower(location)
	for _, c := range knownCities {
		if strings.Contains(lower, c.name) {
			return c.longitude, true
		}
	}
	return fallback, false
}
