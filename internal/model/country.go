// Package model 包含了应用的数据模型定义。
package model

// CountryRecord 是一条规范化后的国家快照。
// 每个字段都保证有值：上游缺失的嵌套字段在归一化时统一替换为占位值，
// 因此消费方永远不会拿到半构造的记录。
type CountryRecord struct {
	CommonName   string   `json:"commonName"`
	OfficialName string   `json:"officialName"`
	Capital      string   `json:"capital"` // 缺失时为 "Unknown"
	Region       string   `json:"region"`
	Subregion    string   `json:"subregion"`
	Population   int64    `json:"population"`
	Area         float64  `json:"area"` // 单位 km²
	Languages    []string `json:"languages"`  // 保持上游响应顺序
	Currencies   []string `json:"currencies"` // ISO 代码，保持上游响应顺序
	Flag         string   `json:"flag"` // 国旗图片 URL，缺失时为 emoji
}

// FilterSpec 描述仪表盘的一次筛选请求，由当前查询参数重建。
type FilterSpec struct {
	Region        string `json:"region"` // "All" 或具体大区名
	MinPopulation int64  `json:"minPopulation"`
	ResultCap     int    `json:"resultCap"`
	SortKey       string `json:"sortKey"` // "population" | "area" | "name"
}

// Stats 是对展示集（截断后）计算的聚合统计。
type Stats struct {
	TotalCount        int     `json:"totalCount"`
	TotalPopulation   int64   `json:"totalPopulation"`
	AveragePopulation float64 `json:"averagePopulation"`
	TotalArea         float64 `json:"totalArea"`
}

// RegionRollup 是单个大区的汇总统计，对完整数据集计算。
type RegionRollup struct {
	Region            string  `json:"region"`
	Count             int     `json:"count"`
	TotalPopulation   int64   `json:"totalPopulation"`
	TotalArea         float64 `json:"totalArea"`
	AveragePopulation float64 `json:"averagePopulation"`
}

// DashboardResult 是一次聚合的完整输出。
type DashboardResult struct {
	Shown []CountryRecord `json:"shown"`
	Stats Stats           `json:"stats"`
}
