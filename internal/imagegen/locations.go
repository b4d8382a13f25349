package imagegen

// Enhancement holds scene hints for a well-known location.
type Enhancement struct {
	Atmosphere  string `json:"atmosphere"`
	Composition string `json:"composition"`
	Lighting    string `json:"lighting"`
}

var locationEnhancements = map[string]Enhancement{
	"巴黎埃菲尔铁塔": {
		Atmosphere:  "浪漫的巴黎氛围，金色的夕阳光线",
		Composition: "埃菲尔铁塔作为背景，人物位于前景",
		Lighting:    "温暖的黄昏光线，营造浪漫氛围",
	},
	"东京樱花": {
		Atmosphere:  "春日樱花盛开的浪漫场景",
		Composition: "樱花树下的人物特写，粉色花瓣飘落",
		Lighting:    "柔和的自然光，突出樱花的粉嫩色彩",
	},
	"纽约时代广场": {
		Atmosphere:  "繁华都市的现代感和活力",
		Composition: "霓虹灯和广告牌作为背景，人物居中",
		Lighting:    "城市夜景的霓虹灯光效果",
	},
	"马尔代夫海滩": {
		Atmosphere:  "热带海岛的度假氛围",
		Composition: "蓝天白云和碧海为背景",
		Lighting:    "明亮的阳光，清澈的海水反光",
	},
}

var defaultEnhancement = Enhancement{
	Atmosphere:  "优美的旅游景点氛围",
	Composition: "景点作为背景，人物自然融入",
	Lighting:    "适合的自然光线，突出景点特色",
}

// LocationEnhancement returns the hints for an exact location match, or a generic fallback.
func LocationEnhancement(location string) Enhancement {
	if enh, ok := locationEnhancements[location]; ok {
		return enh
	}
	return defaultEnhancement
}

// KnownLocations lists the locations with dedicated hints.
func KnownLocations() []string {
	return []string{"巴黎埃菲尔铁塔", "东京樱花", "纽约时代广场", "马尔代夫海滩"}
}
