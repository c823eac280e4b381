// Package model 包含了应用的数据模型定义。
package model

// TravelGuideRequest 是旅行指南端点的请求体。
type TravelGuideRequest struct {
	Country      string   `json:"country" binding:"required"`
	TravelerType string   `json:"travelerType"`
	Days         int      `json:"days"`
	Interests    []string `json:"interests"`
	DetailLevel  int      `json:"detailLevel"`
}

// CompareRequest 是两国对比端点的请求体。
type CompareRequest struct {
	First       string `json:"first" binding:"required"`
	Second      string `json:"second" binding:"required"`
	Aspect      string `json:"aspect"`
	FocusNote   string `json:"focusNote"`
	DetailLevel int    `json:"detailLevel"`
}

// InsightResult 是一次旅行指南生成的输出。
// 生成失败时 Text 为空，但 Country 仍然携带已解析的记录。
type InsightResult struct {
	Text    string         `json:"text"`
	Country *CountryRecord `json:"country"`
}

// CompareResult 是一次两国对比的输出。
// Missing 列出无法解析的国家名称；缺一个时仍会生成文本。
type CompareResult struct {
	Text    string         `json:"text"`
	First   *CountryRecord `json:"first"`
	Second  *CountryRecord `json:"second"`
	Missing []string       `json:"missing,omitempty"`
}
