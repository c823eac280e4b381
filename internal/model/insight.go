// Package model 包含了应用的数据模型定义。
package model

// PromptMode 指明提示词模板的分支。
type PromptMode string

const (
	PromptModeChat        PromptMode = "chat"
	PromptModeTravelGuide PromptMode = "travel_guide"
	PromptModeComparison  PromptMode = "comparison"
)

// 详细程度取值范围，超出范围会被钳制。
const (
	DetailLevelBrief    = 1
	DetailLevelStandard = 2
	DetailLevelInDepth  = 3
)

// InsightOptions 是生成一次文本所需的全部富化参数，
// 在调用前临时构造，调用结束后即丢弃。
type InsightOptions struct {
	Mode         PromptMode `json:"mode"`
	Category     string     `json:"category"` // 对比侧重点或洞察类别
	DetailLevel  int        `json:"detailLevel"` // 1..3
	FocusNote    string     `json:"focusNote"`
	TravelerType string     `json:"travelerType"` // 仅旅行指南
	TripDays     int        `json:"tripDays"`     // 仅旅行指南
}

// TravelerTypes 是旅行指南支持的旅行者类型。
var TravelerTypes = []string{
	"Backpacker/Budget",
	"Family",
	"Luxury",
	"Adventure",
	"Cultural",
	"Business",
}

// ComparisonAspects 是两国对比支持的侧重点。
var ComparisonAspects = []string{
	"Culture and Lifestyle",
	"Economic Development",
	"Tourism and Attractions",
	"Geography and Climate",
	"History and Heritage",
	"Overall Quality of Life",
}
