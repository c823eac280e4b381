// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"country-insight-go/pkg/countries"
	"country-insight-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// CountryHandler 处理国家目录查询相关的 API 请求。
type CountryHandler struct {
	countriesClient *countries.Client
}

// NewCountryHandler 创建一个新的 CountryHandler。
func NewCountryHandler(countriesClient *countries.Client) *CountryHandler {
	return &CountryHandler{countriesClient: countriesClient}
}

// GetCountry 按名称查询单个国家的归一化记录。
func (h *CountryHandler) GetCountry(c *gin.Context) {
	name := c.Param("name")

	record, found := h.countriesClient.Fetch(c.Request.Context(), name)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "Could not find data for '" + name + "'. Please check the spelling and try again.",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": record})
}

// ListCountries 批量返回全部国家，附带实际命中的数据层级。
func (h *CountryHandler) ListCountries(c *gin.Context) {
	records, source := h.countriesClient.FetchAll(c.Request.Context())
	log.Infof("[CountryHandler] 批量查询返回 %d 条记录, source=%s", len(records), source)

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"countries": records,
			"source":    source,
		},
	})
}
