// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"country-insight-go/pkg/llm"

	"github.com/gin-gonic/gin"
)

// HealthHandler 提供服务健康状态查询。
type HealthHandler struct {
	llmClient llm.Client
}

// NewHealthHandler 创建一个新的 HealthHandler。
func NewHealthHandler(llmClient llm.Client) *HealthHandler {
	return &HealthHandler{llmClient: llmClient}
}

// Health 返回服务状态。aiAvailable 标记生成式服务凭据是否就绪，
// 前端据此决定是否展示 AI 相关入口。
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"status":      "ok",
			"aiAvailable": h.llmClient.Available(),
		},
	})
}
