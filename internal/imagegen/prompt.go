package imagegen

import (
	"fmt"
	"strings"
)

// Style selects the rendering look of the composite.
type Style string

const (
	StyleNatural   Style = "natural"
	StyleArtistic  Style = "artistic"
	StyleVintage   Style = "vintage"
	StyleModern    Style = "modern"
	StyleCinematic Style = "cinematic"
)

// Quality selects the fidelity sentence of the prompt.
type Quality string

const (
	QualityHigh         Quality = "high"
	QualityUltra        Quality = "ultra"
	QualityProfessional Quality = "professional"
)

// TimeOfDay adds a lighting clause to advanced prompts.
type TimeOfDay string

const (
	TimeAuto      TimeOfDay = "auto"
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// Weather adds a sky clause to advanced prompts.
type Weather string

const (
	WeatherAuto   Weather = "auto"
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherSunset Weather = "sunset"
)

var styleDescriptions = map[Style]string{
	StyleNatural:   "保持自然真实的效果，就像真实拍摄的旅游照片",
	StyleArtistic:  "增加艺术感和美感，色彩更加鲜艳生动",
	StyleVintage:   "添加复古滤镜效果，温暖的色调和怀旧感",
	StyleModern:    "现代时尚风格，清晰锐利，色彩饱和度高",
	StyleCinematic: "电影级别的光影效果，戏剧性的构图和色调",
}

var qualityDescriptions = map[Quality]string{
	QualityHigh:         "高质量",
	QualityUltra:        "超高清4K质量，细节丰富",
	QualityProfessional: "专业摄影级别，完美的光线和构图",
}

var timeDescriptions = map[TimeOfDay]string{
	TimeMorning:   "清晨的柔和光线",
	TimeAfternoon: "午后明亮的阳光",
	TimeEvening:   "黄昏的温暖光线",
	TimeNight:     "夜晚的灯光效果",
}

var weatherDescriptions = map[Weather]string{
	WeatherSunny:  "晴朗的天气，阳光充足",
	WeatherCloudy: "多云的天空，柔和的散射光",
	WeatherSunset: "日落时分，金色的光线",
}

// Order matters: the list is numbered in the rendered prompt.
var technicalRequirements = []string{
	"人物与背景光线、色调保持一致",
	"人物大小比例符合透视关系",
	"边缘融合自然，无明显合成痕迹",
	"保持人物原有的姿态和表情",
	"整体画面和谐统一",
}

// NormalizeStyle returns v when it names a known value and StyleNatural otherwise.
// Matching is exact, so "ARTISTIC" or " artistic" fall back too.
func NormalizeStyle(v string) Style {
	if _, ok := styleDescriptions[Style(v)]; ok {
		return Style(v)
	}
	return StyleNatural
}

// NormalizeQuality returns v when it names a known value and QualityHigh otherwise.
func NormalizeQuality(v string) Quality {
	if _, ok := qualityDescriptions[Quality(v)]; ok {
		return Quality(v)
	}
	return QualityHigh
}

// NormalizeTimeOfDay returns v when it names a known value and TimeAuto otherwise.
func NormalizeTimeOfDay(v string) TimeOfDay {
	if _, ok := timeDescriptions[TimeOfDay(v)]; ok {
		return TimeOfDay(v)
	}
	return TimeAuto
}

// NormalizeWeather returns v when it names a known value and WeatherAuto otherwise.
func NormalizeWeather(v string) Weather {
	if _, ok := weatherDescriptions[Weather(v)]; ok {
		return Weather(v)
	}
	return WeatherAuto
}

// BuildPrompt renders the compositing instruction for the upstream model:
// place the person from the first image into the scene of the second.
func BuildPrompt(location, style, quality string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "请将第一张人物照片中的人物自然地合成到第二张%s风景照片中，要求：\n", location)
	for i, req := range technicalRequirements {
		fmt.Fprintf(&b, "%d. %s\n", i+1, req)
	}
	fmt.Fprintf(&b, "%d. %s\n", len(technicalRequirements)+1, styleDescriptions[NormalizeStyle(style)])
	fmt.Fprintf(&b, "生成%s的旅游打卡照片效果。", qualityDescriptions[NormalizeQuality(quality)])
	return b.String()
}

// PromptSpec is the full set of inputs for BuildAdvancedPrompt.
type PromptSpec struct {
	Location  string
	Style     string
	Quality   string
	TimeOfDay string
	Weather   string
}

// BuildAdvancedPrompt extends BuildPrompt with a "special requirements" line:
// explicit time-of-day and weather clauses first, then the location's
// atmosphere and lighting.
func BuildAdvancedPrompt(spec PromptSpec) string {
	base := BuildPrompt(spec.Location, spec.Style, spec.Quality)
	var extra []string
	if desc, ok := timeDescriptions[NormalizeTimeOfDay(spec.TimeOfDay)]; ok {
		extra = append(extra, desc)
	}
	if desc, ok := weatherDescriptions[NormalizeWeather(spec.Weather)]; ok {
		extra = append(extra, desc)
	}
	enh := LocationEnhancement(spec.Location)
	extra = append(extra, enh.Atmosphere, enh.Lighting)
	return base + "\n\n特殊要求：" + strings.Join(extra, ", ")
}
