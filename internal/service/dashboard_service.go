// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"sort"

	"country-insight-go/internal/model"
	"country-insight-go/pkg/countries"
	"country-insight-go/pkg/log"
)

// 排序键取值。
const (
	SortByPopulation = "population"
	SortByArea       = "area"
	SortByName       = "name"
)

// RegionAll 表示不过滤大区。
const RegionAll = "All"

// DashboardService 定义了仪表盘聚合相关的业务接口。
type DashboardService interface {
	// Overview 抓取全部国家并按筛选条件聚合，返回展示集、统计值和数据来源层级。
	Overview(ctx context.Context, filter model.FilterSpec) (model.DashboardResult, countries.Source)
	// RegionRollups 对完整数据集计算逐大区汇总。
	RegionRollups(ctx context.Context) ([]model.RegionRollup, countries.Source)
}

type dashboardService struct {
	countriesClient *countries.Client
}

// NewDashboardService 创建一个新的 DashboardService 实例。
func NewDashboardService(countriesClient *countries.Client) DashboardService {
	return &dashboardService{countriesClient: countriesClient}
}

func (s *dashboardService) Overview(ctx context.Context, filter model.FilterSpec) (model.DashboardResult, countries.Source) {
	records, source := s.countriesClient.FetchAll(ctx)
	log.Infof("[DashboardService] 聚合 %d 条记录, source=%s, region=%s, minPopulation=%d, cap=%d, sortKey=%s",
		len(records), source, filter.Region, filter.MinPopulation, filter.ResultCap, filter.SortKey)
	return Aggregate(records, filter), source
}

func (s *dashboardService) RegionRollups(ctx context.Context) ([]model.RegionRollup, countries.Source) {
	records, source := s.countriesClient.FetchAll(ctx)
	return Rollups(records), source
}

// Aggregate 对一组国家记录执行筛选、稳定排序、截断并计算统计值。
// 纯函数：不修改输入切片，不做 I/O；统计值基于截断后的展示集计算。
func Aggregate(records []model.CountryRecord, filter model.FilterSpec) model.DashboardResult {
	shown := make([]model.CountryRecord, 0, len(records))
	for _, record := range records {
		if filter.Region != "" && filter.Region != RegionAll && record.Region != filter.Region {
			continue
		}
		if record.Population < filter.MinPopulation {
			continue
		}
		shown = append(shown, record)
	}

	// 稳定排序：平局时保持原始抓取顺序
	switch filter.SortKey {
	case SortByArea:
		sort.SliceStable(shown, func(i, j int) bool { return shown[i].Area > shown[j].Area })
	case SortByName:
		sort.SliceStable(shown, func(i, j int) bool { return shown[i].CommonName < shown[j].CommonName })
	default:
		sort.SliceStable(shown, func(i, j int) bool { return shown[i].Population > shown[j].Population })
	}

	if filter.ResultCap > 0 && len(shown) > filter.ResultCap {
		shown = shown[:filter.ResultCap]
	}

	stats := model.Stats{TotalCount: len(shown)}
	for _, record := range shown {
		stats.TotalPopulation += record.Population
		stats.TotalArea += record.Area
	}
	if stats.TotalCount > 0 {
		stats.AveragePopulation = float64(stats.TotalPopulation) / float64(stats.TotalCount)
	}

	return model.DashboardResult{Shown: shown, Stats: stats}
}

// Rollups 对完整数据集计算逐大区汇总，按大区名排序保证输出稳定。
func Rollups(records []model.CountryRecord) []model.RegionRollup {
	byRegion := make(map[string]*model.RegionRollup)
	for _, record := range records {
		rollup, ok := byRegion[record.Region]
		if !ok {
			rollup = &model.RegionRollup{Region: record.Region}
			byRegion[record.Region] = rollup
		}
		rollup.Count++
		rollup.TotalPopulation += record.Population
		rollup.TotalArea += record.Area
	}

	rollups := make([]model.RegionRollup, 0, len(byRegion))
	for _, rollup := range byRegion {
		if rollup.Count > 0 {
			rollup.AveragePopulation = float64(rollup.TotalPopulation) / float64(rollup.Count)
		}
		rollups = append(rollups, *rollup)
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].Region < rollups[j].Region })
	return rollups
}
