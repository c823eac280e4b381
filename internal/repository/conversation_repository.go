// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"country-insight-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// ConversationRepository 定义了会话转录的操作接口。
// 转录只会追加增长；会话结束时整体删除，不支持单条编辑或删除。
type ConversationRepository interface {
	GetTranscript(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	AppendMessages(ctx context.Context, sessionID string, messages ...model.ChatMessage) error
	DeleteTranscript(ctx context.Context, sessionID string) error
}

type redisConversationRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewConversationRepository 创建一个新的 ConversationRepository 实例。
// ttl 限定转录在 Redis 中的存活时间，与会话令牌有效期对齐，
// 保证转录不会在会话结束后继续存在。
func NewConversationRepository(redisClient *redis.Client, ttl time.Duration) ConversationRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisConversationRepository{redisClient: redisClient, ttl: ttl}
}

func transcriptKey(sessionID string) string {
	return fmt.Sprintf("session:%s:transcript", sessionID)
}

// GetTranscript 获取一个会话的完整转录，会话不存在时返回空转录。
func (r *redisConversationRepository) GetTranscript(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	jsonData, err := r.redisClient.Get(ctx, transcriptKey(sessionID)).Result()
	if err == redis.Nil {
		return []model.ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}

	var messages []model.ChatMessage
	if err := json.Unmarshal([]byte(jsonData), &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return messages, nil
}

// AppendMessages 把若干条消息按序追加到会话转录末尾。
func (r *redisConversationRepository) AppendMessages(ctx context.Context, sessionID string, messages ...model.ChatMessage) error {
	history, err := r.GetTranscript(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, messages...)

	jsonData, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := r.redisClient.Set(ctx, transcriptKey(sessionID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set transcript: %w", err)
	}
	return nil
}

// DeleteTranscript 在会话结束时删除整个转录。
func (r *redisConversationRepository) DeleteTranscript(ctx context.Context, sessionID string) error {
	if err := r.redisClient.Del(ctx, transcriptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	return nil
}
