// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"strconv"

	"country-insight-go/internal/model"
	"country-insight-go/internal/service"
	"country-insight-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 处理仪表盘聚合相关的 API 请求。
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler 创建一个新的 DashboardHandler。
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview 按查询参数筛选、排序并聚合国家数据。
// 参数非法时回退到默认值而不是报错，仪表盘始终有内容可渲染。
func (h *DashboardHandler) Overview(c *gin.Context) {
	filter := model.FilterSpec{
		Region:  c.DefaultQuery("region", service.RegionAll),
		SortKey: c.DefaultQuery("sortBy", service.SortByPopulation),
	}

	if v, err := strconv.ParseInt(c.DefaultQuery("minPopulation", "0"), 10, 64); err == nil && v > 0 {
		filter.MinPopulation = v
	}
	filter.ResultCap = 10
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		filter.ResultCap = v
	}
	switch filter.SortKey {
	case service.SortByPopulation, service.SortByArea, service.SortByName:
	default:
		filter.SortKey = service.SortByPopulation
	}

	result, source := h.dashboardService.Overview(c.Request.Context(), filter)
	log.Infof("[DashboardHandler] 聚合完成, 展示 %d 条, source=%s", result.Stats.TotalCount, source)

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"countries": result.Shown,
			"stats":     result.Stats,
			"source":    source,
		},
	})
}

// Regions 返回完整数据集的逐大区汇总。
func (h *DashboardHandler) Regions(c *gin.Context) {
	rollups, source := h.dashboardService.RegionRollups(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"regions": rollups,
			"source":  source,
		},
	})
}
