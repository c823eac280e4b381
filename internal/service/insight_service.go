// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"strings"

	"country-insight-go/internal/model"
	"country-insight-go/pkg/llm"
	"country-insight-go/pkg/log"
)

// ErrCountryNotFound 表示洞察请求中的国家无法在目录服务中解析。
var ErrCountryNotFound = errors.New("service: country not found")

// CountryFetcher 是洞察与对话路径对国家目录客户端的最小依赖。
type CountryFetcher interface {
	Fetch(ctx context.Context, name string) (*model.CountryRecord, bool)
}

// 旅行天数的合法区间，超出时钳制。
const (
	minTripDays = 3
	maxTripDays = 21
)

// InsightService 定义了一次性文本生成（旅行指南、两国对比）的业务接口。
type InsightService interface {
	TravelGuide(ctx context.Context, req model.TravelGuideRequest) (*model.InsightResult, error)
	Compare(ctx context.Context, req model.CompareRequest) (*model.CompareResult, error)
}

type insightService struct {
	fetcher  CountryFetcher
	llm      llm.Client
	composer PromptComposer
}

// NewInsightService 创建一个新的 InsightService 实例。
func NewInsightService(fetcher CountryFetcher, llmClient llm.Client) InsightService {
	return &insightService{
		fetcher:  fetcher,
		llm:      llmClient,
		composer: NewPromptComposer(),
	}
}

// TravelGuide 为单个国家生成个性化旅行指南。
// 国家无法解析时返回 ErrCountryNotFound；生成失败时返回已解析的记录
// 和分类后的失败原因，调用方可以只替换生成内容而继续渲染其余部分。
func (s *insightService) TravelGuide(ctx context.Context, req model.TravelGuideRequest) (*model.InsightResult, error) {
	country, found := s.fetcher.Fetch(ctx, req.Country)
	if !found {
		return nil, ErrCountryNotFound
	}

	opts := model.InsightOptions{
		Mode:         model.PromptModeTravelGuide,
		DetailLevel:  req.DetailLevel,
		TravelerType: normalizeTravelerType(req.TravelerType),
		TripDays:     clampTripDays(req.Days),
		FocusNote:    strings.Join(req.Interests, ", "),
	}
	prompt := s.composer.Compose(nil, country, nil, opts)

	result := &model.InsightResult{Country: country}
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Errorf("[InsightService] 生成旅行指南失败: country=%s, err=%v", country.CommonName, err)
		return result, err
	}
	result.Text = text
	return result, nil
}

// Compare 生成两国对比。
// 两个国家都无法解析时返回 ErrCountryNotFound；只缺一个时照常生成，
// 提示词中以显式的 "no data" 说明替代缺失方，结果里列出缺失的名称。
func (s *insightService) Compare(ctx context.Context, req model.CompareRequest) (*model.CompareResult, error) {
	first, firstFound := s.fetcher.Fetch(ctx, req.First)
	second, secondFound := s.fetcher.Fetch(ctx, req.Second)

	result := &model.CompareResult{First: first, Second: second}
	if !firstFound {
		result.Missing = append(result.Missing, req.First)
	}
	if !secondFound {
		result.Missing = append(result.Missing, req.Second)
	}
	if !firstFound && !secondFound {
		return nil, ErrCountryNotFound
	}

	opts := model.InsightOptions{
		Mode:        model.PromptModeComparison,
		Category:    normalizeAspect(req.Aspect),
		DetailLevel: req.DetailLevel,
		FocusNote:   req.FocusNote,
	}
	prompt := s.composer.Compose(nil, first, second, opts)

	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Errorf("[InsightService] 生成两国对比失败: first=%s, second=%s, err=%v", req.First, req.Second, err)
		return result, err
	}
	result.Text = text
	return result, nil
}

// normalizeTravelerType 校验旅行者类型，非法值回退到列表首项。
func normalizeTravelerType(travelerType string) string {
	for _, t := range model.TravelerTypes {
		if t == travelerType {
			return t
		}
	}
	return model.TravelerTypes[0]
}

// normalizeAspect 校验对比侧重点，非法值回退到列表首项。
func normalizeAspect(aspect string) string {
	for _, a := range model.ComparisonAspects {
		if a == aspect {
			return a
		}
	}
	return model.ComparisonAspects[0]
}

func clampTripDays(days int) int {
	if days < minTripDays {
		return minTripDays
	}
	if days > maxTripDays {
		return maxTripDays
	}
	return days
}
