// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"time"

	"country-insight-go/internal/model"
	"country-insight-go/internal/repository"
	"country-insight-go/pkg/llm"
	"country-insight-go/pkg/log"
)

// ChatService 定义了对话会话的业务接口。
// 一个会话的转录只会追加增长：每次用户提交固定追加一条 user 消息和
// 一条 assistant 消息（生成失败时后者是面向用户的失败提示）。
type ChatService interface {
	// Respond 处理一轮对话。writer 非空时答案分块流式写出；
	// 返回值是本轮追加到转录的 assistant 内容。
	Respond(ctx context.Context, sessionID, userMessage, focusCountry string, writer llm.MessageWriter) (string, error)
	// History 返回会话的完整转录。
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	// EndSession 结束会话并删除其转录。
	EndSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	fetcher          CountryFetcher
	llmClient        llm.Client
	conversationRepo repository.ConversationRepository
	composer         PromptComposer
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(fetcher CountryFetcher, llmClient llm.Client, conversationRepo repository.ConversationRepository) ChatService {
	return &chatService{
		fetcher:          fetcher,
		llmClient:        llmClient,
		conversationRepo: conversationRepo,
		composer:         NewPromptComposer(),
	}
}

// Respond 执行一轮 用户提交 -> 生成 -> 回复 的循环。
// 焦点国家每轮重新抓取，保持各轮之间数据口径一致；抓取缺失不阻塞对话，
// 提示词中会显式声明没有国家数据。
func (s *chatService) Respond(ctx context.Context, sessionID, userMessage, focusCountry string, writer llm.MessageWriter) (string, error) {
	userTurn := model.ChatMessage{
		Role:      model.RoleUser,
		Content:   userMessage,
		Timestamp: time.Now(),
	}
	if err := s.conversationRepo.AppendMessages(ctx, sessionID, userTurn); err != nil {
		return "", err
	}

	transcript, err := s.conversationRepo.GetTranscript(ctx, sessionID)
	if err != nil {
		return "", err
	}

	var country *model.CountryRecord
	if focusCountry != "" {
		var found bool
		country, found = s.fetcher.Fetch(ctx, focusCountry)
		if !found {
			log.Warnf("[ChatService] 焦点国家数据加载失败: session=%s, country=%s", sessionID, focusCountry)
		}
	}

	prompt := s.composer.Compose(transcript, country, nil, model.InsightOptions{Mode: model.PromptModeChat})

	var answer string
	var genErr error
	if writer != nil {
		answer, genErr = s.llmClient.StreamGenerate(ctx, prompt, writer)
	} else {
		answer, genErr = s.llmClient.Generate(ctx, prompt)
	}
	if genErr != nil {
		// 失败也追加 assistant 回合，转录保持 user/assistant 严格交替
		answer = llm.FailureMessage(genErr)
		log.Errorf("[ChatService] 生成回复失败: session=%s, err=%v", sessionID, genErr)
	}

	assistantTurn := model.ChatMessage{
		Role:      model.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now(),
	}
	// 使用后台上下文保存：即使请求被取消也要保住已生成的回复
	if err := s.conversationRepo.AppendMessages(context.Background(), sessionID, assistantTurn); err != nil {
		log.Errorf("[ChatService] 保存会话转录失败: session=%s, err=%v", sessionID, err)
		return answer, err
	}

	return answer, genErr
}

// History 获取会话的完整转录。
func (s *chatService) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return s.conversationRepo.GetTranscript(ctx, sessionID)
}

// EndSession 结束会话：删除转录，之后同一令牌的历史查询返回空。
func (s *chatService) EndSession(ctx context.Context, sessionID string) error {
	return s.conversationRepo.DeleteTranscript(ctx, sessionID)
}
