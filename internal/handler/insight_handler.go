// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"country-insight-go/internal/model"
	"country-insight-go/internal/service"
	"country-insight-go/pkg/llm"
	"country-insight-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// InsightHandler 处理一次性文本生成相关的 API 请求。
type InsightHandler struct {
	insightService service.InsightService
}

// NewInsightHandler 创建一个新的 InsightHandler。
func NewInsightHandler(insightService service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// TravelGuide 为单个国家生成旅行指南。
// 生成失败时仍返回 200 和已解析的国家记录，
// 只把生成文本替换为失败提示，页面其余部分可以继续渲染。
func (h *InsightHandler) TravelGuide(c *gin.Context) {
	var req model.TravelGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request body", "data": nil})
		return
	}

	result, err := h.insightService.TravelGuide(c.Request.Context(), req)
	if errors.Is(err, service.ErrCountryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "Could not find data for '" + req.Country + "'. Please check the spelling and try again.",
			"data":    nil,
		})
		return
	}
	if err != nil {
		log.Errorf("[InsightHandler] 旅行指南生成失败: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"code":    http.StatusOK,
			"message": "success",
			"data": gin.H{
				"country": result.Country,
				"guide":   nil,
				"error":   llm.FailureMessage(err),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"country": result.Country,
			"guide":   result.Text,
		},
	})
}

// Compare 生成两国对比。任一国家缺数据会在响应中列出，而不是整体失败。
func (h *InsightHandler) Compare(c *gin.Context) {
	var req model.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request body", "data": nil})
		return
	}

	result, err := h.insightService.Compare(c.Request.Context(), req)
	if errors.Is(err, service.ErrCountryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "Could not find data for either country. Please check the spelling and try again.",
			"data":    nil,
		})
		return
	}
	if err != nil {
		log.Errorf("[InsightHandler] 两国对比生成失败: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"code":    http.StatusOK,
			"message": "success",
			"data": gin.H{
				"first":      result.First,
				"second":     result.Second,
				"missing":    result.Missing,
				"comparison": nil,
				"error":      llm.FailureMessage(err),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"first":      result.First,
			"second":     result.Second,
			"missing":    result.Missing,
			"comparison": result.Text,
		},
	})
}
