package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"country-insight-go/internal/config"
	"country-insight-go/internal/middleware"
	"country-insight-go/internal/model"
	"country-insight-go/pkg/llm"
	"country-insight-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatService 返回预置转录与应答，记录收到的消息和结束过的会话。
type fakeChatService struct {
	transcript    []model.ChatMessage
	historyErr    error
	ended         []string
	respondAnswer string
	respondErr    error
	messages      []string
}

func (f *fakeChatService) Respond(ctx context.Context, sessionID, userMessage, focusCountry string, writer llm.MessageWriter) (string, error) {
	f.messages = append(f.messages, userMessage)
	if f.respondErr != nil {
		return f.respondAnswer, f.respondErr
	}
	if writer != nil && f.respondAnswer != "" {
		if err := writer.WriteMessage(1, []byte(f.respondAnswer)); err != nil {
			return "", err
		}
	}
	return f.respondAnswer, nil
}

func (f *fakeChatService) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return f.transcript, f.historyErr
}

func (f *fakeChatService) EndSession(ctx context.Context, sessionID string) error {
	f.ended = append(f.ended, sessionID)
	return nil
}

func newChatRouter(svc *fakeChatService, jwtManager *token.JWTManager) *gin.Engine {
	h := NewChatHandler(svc, jwtManager)
	r := gin.New()
	r.GET("/api/v1/chat/session", h.CreateSession)
	authed := r.Group("/api/v1/chat", middleware.SessionAuthMiddleware(jwtManager))
	authed.GET("/history", h.History)
	authed.DELETE("/history", h.EndSession)
	return r
}

func TestCreateSession(t *testing.T) {
	config.Conf.Chat.DefaultCountry = "France"
	jwtManager := token.NewJWTManager("test-secret", 24)
	r := newChatRouter(&fakeChatService{}, jwtManager)

	w := performRequest(r, http.MethodGet, "/api/v1/chat/session?country=Japan")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			SessionToken string `json:"sessionToken"`
			SessionID    string `json:"sessionId"`
			FocusCountry string `json:"focusCountry"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Japan", body.Data.FocusCountry)
	assert.Len(t, body.Data.SessionID, 32)

	claims, err := jwtManager.VerifyToken(body.Data.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, body.Data.SessionID, claims.SessionID)
	assert.Equal(t, "Japan", claims.FocusCountry)
}

func TestCreateSessionUsesDefaultCountry(t *testing.T) {
	config.Conf.Chat.DefaultCountry = "France"
	r := newChatRouter(&fakeChatService{}, token.NewJWTManager("test-secret", 24))

	w := performRequest(r, http.MethodGet, "/api/v1/chat/session")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"focusCountry":"France"`)
}

func TestHistoryRequiresValidToken(t *testing.T) {
	r := newChatRouter(&fakeChatService{}, token.NewJWTManager("test-secret", 24))

	w := performRequest(r, http.MethodGet, "/api/v1/chat/history")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, http.MethodGet, "/api/v1/chat/history?token=garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoryReturnsTranscript(t *testing.T) {
	jwtManager := token.NewJWTManager("test-secret", 24)
	svc := &fakeChatService{transcript: []model.ChatMessage{
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi"},
	}}
	r := newChatRouter(svc, jwtManager)

	sessionToken, err := jwtManager.GenerateSessionToken("session-1", "France")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []model.ChatMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, model.RoleUser, body.Data[0].Role)
	assert.Equal(t, "hello", body.Data[0].Content)
}

func TestHistoryRepositoryFailure(t *testing.T) {
	jwtManager := token.NewJWTManager("test-secret", 24)
	svc := &fakeChatService{historyErr: errors.New("redis down")}
	r := newChatRouter(svc, jwtManager)

	sessionToken, err := jwtManager.GenerateSessionToken("session-1", "")
	require.NoError(t, err)

	w := performRequest(r, http.MethodGet, "/api/v1/chat/history?token="+sessionToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func dialChat(t *testing.T, svc *fakeChatService) *websocket.Conn {
	t.Helper()
	jwtManager := token.NewJWTManager("test-secret", 24)
	h := NewChatHandler(svc, jwtManager)
	r := gin.New()
	r.GET("/chat/:token", h.Handle)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	sessionToken, err := jwtManager.GenerateSessionToken("session-1", "France")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(srv.URL, "http")+"/chat/"+sessionToken, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandleStreamsChunksAndCompletion(t *testing.T) {
	svc := &fakeChatService{respondAnswer: "bonjour"}
	conn := dialChat(t, svc)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"chunk":"bonjour"}`, string(msg))

	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"completion"`)

	assert.Equal(t, []string{"hello"}, svc.messages)
}

func TestHandleTurnFailureSendsNonEmptyError(t *testing.T) {
	// 用户回合保存失败时没有生成内容，错误提示不能为空串
	svc := &fakeChatService{respondErr: errors.New("redis down")}
	conn := dialChat(t, svc)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(msg, &payload))
	assert.Equal(t, llm.FailureMessage(svc.respondErr), payload["error"])

	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"completion"`)
}

func TestEndSessionDeletesOwnTranscript(t *testing.T) {
	jwtManager := token.NewJWTManager("test-secret", 24)
	svc := &fakeChatService{}
	r := newChatRouter(svc, jwtManager)

	sessionToken, err := jwtManager.GenerateSessionToken("session-1", "")
	require.NoError(t, err)

	w := performRequest(r, http.MethodDelete, "/api/v1/chat/history?token="+sessionToken)
	require.Equal(t, http.StatusOK, w.Code)

	// 只能结束令牌自己声明的会话
	assert.Equal(t, []string{"session-1"}, svc.ended)
}
