// Package llm provides a client for the generative text service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"country-insight-go/internal/config"
	"country-insight-go/pkg/log"

	"github.com/gorilla/websocket"
	genai "google.golang.org/genai"
)

// 生成调用的失败分类。调用方通过 errors.Is 判断，原始错误不会越过本包边界。
var (
	// ErrServiceUnavailable 凭据缺失或客户端初始化失败，进程启动时一次性判定。
	ErrServiceUnavailable = errors.New("llm: service unavailable")
	// ErrEmptyResponse 服务返回了成功包装但没有可用文本。
	ErrEmptyResponse = errors.New("llm: empty response from model")
	// ErrRequestFailed 网络、超时或服务端错误。
	ErrRequestFailed = errors.New("llm: request failed")
)

// MessageWriter defines an interface for writing WebSocket messages.
// This allows both a standard websocket.Conn and an interceptor to be used.
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Client defines the interface for a generative text client.
// 每次调用只尝试一次，不做重试；是否重新触发由调用方决定。
type Client interface {
	// Available 报告凭据是否就绪。false 时所有调用立即返回 ErrServiceUnavailable。
	Available() bool
	// Generate 发送一条提示词并返回完整生成文本。
	Generate(ctx context.Context, prompt string) (string, error)
	// StreamGenerate 流式生成，分块写入 writer，并返回拼接后的完整文本。
	StreamGenerate(ctx context.Context, prompt string, writer MessageWriter) (string, error)
}

// defaultRequestTimeout 在未配置超时时间时生效。
const defaultRequestTimeout = 60 * time.Second

type geminiClient struct {
	cli *genai.Client
	cfg config.GeminiConfig
}

// NewClient 根据配置创建生成式文本客户端。
// 凭据缺失或初始化失败时返回一个降级客户端，所有调用短路为 ErrServiceUnavailable，
// 绝不尝试网络请求；进程其余部分不受影响。
func NewClient(ctx context.Context, cfg config.GeminiConfig) Client {
	if cfg.APIKey == "" {
		log.Warnf("[LLMClient] 未配置 Gemini API Key, AI 相关功能降级为不可用")
		return unavailableClient{}
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Error("[LLMClient] 初始化 Gemini 客户端失败, AI 相关功能降级为不可用", err)
		return unavailableClient{}
	}

	log.Infof("[LLMClient] Gemini 客户端初始化成功, model: %s", cfg.Model)
	return &geminiClient{cli: cli, cfg: cfg}
}

func (c *geminiClient) Available() bool { return true }

// Generate calls the Gemini API once and returns the full completion text.
// 调用自带秒级超时，挂起的上游连接在超时后转换为 ErrRequestFailed。
func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	resp, err := c.cli.Models.GenerateContent(ctx, c.cfg.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		c.generationConfig(),
	)
	if err != nil {
		log.Errorf("[LLMClient] 调用 Gemini API 失败, error: %v", err)
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	text := responseText(resp)
	if text == "" {
		log.Warnf("[LLMClient] Gemini API 返回了空的文本内容")
		return "", ErrEmptyResponse
	}
	return text, nil
}

// StreamGenerate streams the completion chunk by chunk into writer.
// 超时覆盖整个流式过程；对话连接的上下文可能存活数小时，不能依赖它兜底。
func (c *geminiClient) StreamGenerate(ctx context.Context, prompt string, writer MessageWriter) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	var full strings.Builder
	for resp, err := range c.cli.Models.GenerateContentStream(ctx, c.cfg.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		c.generationConfig(),
	) {
		if err != nil {
			log.Errorf("[LLMClient] Gemini 流式调用失败, error: %v", err)
			return full.String(), fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if err := writer.WriteMessage(websocket.TextMessage, []byte(chunk)); err != nil {
			return full.String(), fmt.Errorf("failed to write message to websocket: %w", err)
		}
	}

	text := strings.TrimSpace(full.String())
	if text == "" {
		log.Warnf("[LLMClient] Gemini 流式调用未产生任何文本")
		return "", ErrEmptyResponse
	}
	return text, nil
}

// requestTimeout 返回单次生成调用的超时时间。
func (c *geminiClient) requestTimeout() time.Duration {
	if c.cfg.TimeoutSeconds > 0 {
		return time.Duration(c.cfg.TimeoutSeconds) * time.Second
	}
	return defaultRequestTimeout
}

// generationConfig 将配置中的非零生成参数注入请求。
func (c *geminiClient) generationConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if c.cfg.Generation.Temperature != 0 {
		cfg.Temperature = genai.Ptr(float32(c.cfg.Generation.Temperature))
	}
	if c.cfg.Generation.TopP != 0 {
		cfg.TopP = genai.Ptr(float32(c.cfg.Generation.TopP))
	}
	if c.cfg.Generation.MaxOutputTokens != 0 {
		cfg.MaxOutputTokens = int32(c.cfg.Generation.MaxOutputTokens)
	}
	return cfg
}

// responseText 取出首个候选中的全部文本片段。
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// unavailableClient 在凭据缺失时替代真实客户端，所有调用立即失败且不触网。
type unavailableClient struct{}

func (unavailableClient) Available() bool { return false }

func (unavailableClient) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrServiceUnavailable
}

func (unavailableClient) StreamGenerate(ctx context.Context, prompt string, writer MessageWriter) (string, error) {
	return "", ErrServiceUnavailable
}

// FailureMessage 把一次生成失败映射为面向用户的简短提示。
// 页面其余部分继续正常渲染，该文本只替换预期的生成内容。
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrServiceUnavailable):
		return "The AI assistant is not configured right now. Please contact the app owner."
	case errors.Is(err, ErrEmptyResponse):
		return "The AI assistant returned an empty answer. Please try again."
	default:
		return "Sorry, something went wrong while contacting the AI. Please try again in a moment."
	}
}
