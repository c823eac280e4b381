// Package countries 提供了一个与 REST Countries 服务交互的客户端。
package countries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"country-insight-go/internal/config"
	"country-insight-go/internal/model"
	"country-insight-go/pkg/log"
)

// Source 标识一次批量抓取实际命中的数据层级。
type Source string

const (
	SourceLive    Source = "live"    // /all 端点直接成功
	SourceRegions Source = "regions" // 按大区逐个抓取后合并
	SourceSample  Source = "sample"  // 内置样本数据，离线兜底
)

// regions 是批量抓取降级时逐个请求的大区列表。
var regions = []string{"africa", "americas", "asia", "europe", "oceania"}

// Client 是 REST Countries 服务的客户端。
// 对外契约是全函数：任何网络或解析错误都被转换为缺失或降级，不向上抛出。
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 REST Countries 客户端实例。
func NewClient(cfg config.CountriesConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch 按名称查询单个国家并返回归一化记录。
// 空白输入直接返回缺失，不发起网络请求；非 200、空结果或任何错误同样返回缺失。
func (c *Client) Fetch(ctx context.Context, name string) (*model.CountryRecord, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/name/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("[CountriesClient] 查询国家失败: name=%s, err=%v", name, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("[CountriesClient] 查询国家返回非 200 状态码: name=%s, status=%s", name, resp.Status)
		return nil, false
	}

	var payload []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warnf("[CountriesClient] 解析国家响应失败: name=%s, err=%v", name, err)
		return nil, false
	}
	if len(payload) == 0 {
		return nil, false
	}

	record := normalize(payload[0])
	return &record, true
}

// FetchAll 批量抓取全部国家，按三级策略逐级降级：
// /all -> 按大区合并 -> 内置样本。每级只尝试一次。
func (c *Client) FetchAll(ctx context.Context) ([]model.CountryRecord, Source) {
	if records, ok := c.fetchList(ctx, c.baseURL+"/all"); ok {
		log.Infof("[CountriesClient] /all 抓取成功, 共 %d 条", len(records))
		return records, SourceLive
	}

	// /all 失败后逐大区抓取并合并，任一大区成功即不使用样本数据
	var merged []model.CountryRecord
	for _, region := range regions {
		records, ok := c.fetchList(ctx, c.baseURL+"/region/"+region)
		if !ok {
			log.Warnf("[CountriesClient] 大区抓取失败: region=%s", region)
			continue
		}
		merged = append(merged, records...)
	}
	if len(merged) > 0 {
		log.Infof("[CountriesClient] 按大区合并抓取成功, 共 %d 条", len(merged))
		return merged, SourceRegions
	}

	log.Warnf("[CountriesClient] 全部抓取层级失败, 使用内置样本数据")
	return SampleRecords(), SourceSample
}

// fetchList 请求一个返回国家数组的端点并归一化，失败时返回 ok=false。
func (c *Client) fetchList(ctx context.Context, endpoint string) ([]model.CountryRecord, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var payload []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false
	}
	if len(payload) == 0 {
		return nil, false
	}

	records := make([]model.CountryRecord, 0, len(payload))
	for _, entry := range payload {
		records = append(records, normalize(entry))
	}
	return records, true
}
