// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"country-insight-go/internal/config"
	"country-insight-go/internal/service"
	"country-insight-go/pkg/llm"
	"country-insight-go/pkg/log"
	"country-insight-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ChatHandler 负责处理 WebSocket 对话连接和会话生命周期。
type ChatHandler struct {
	chatService service.ChatService
	jwtManager  *token.JWTManager
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService, jwtManager *token.JWTManager) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		jwtManager:  jwtManager,
	}
}

// CreateSession 为一个新的对话会话签发令牌。
// 可选的 country 查询参数把会话固定到一个焦点国家。
func (h *ChatHandler) CreateSession(c *gin.Context) {
	focusCountry := c.Query("country")
	if focusCountry == "" {
		focusCountry = config.Conf.Chat.DefaultCountry
	}

	sessionID := token.NewSessionID()
	sessionToken, err := h.jwtManager.GenerateSessionToken(sessionID, focusCountry)
	if err != nil {
		log.Error("生成会话令牌失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "failed to create session", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"sessionToken": sessionToken,
			"sessionId":    sessionID,
			"focusCountry": focusCountry,
		},
	})
}

// wsMessage 是客户端经 WebSocket 发来的 JSON 控制/对话消息。
type wsMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Country string `json:"country"`
}

// Handle 处理一个传入的 WebSocket 连接。
// 连接内消息严格串行处理：一轮 user 提交完整结束后才读取下一条，
// 因此单个会话永远只有一个在途的生成调用。
func (h *ChatHandler) Handle(c *gin.Context) {
	tokenString := c.Param("token")
	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "invalid session token", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立, session: %s, focusCountry: %s", claims.SessionID, claims.FocusCountry)
	focusCountry := claims.FocusCountry

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		userMessage := string(message)
		if len(message) > 0 && message[0] == '{' {
			var ctrl wsMessage
			if err := json.Unmarshal(message, &ctrl); err == nil {
				switch ctrl.Type {
				case "focus":
					// 切换焦点国家，下一轮起生效
					focusCountry = ctrl.Country
					ack := map[string]string{"type": "focus", "country": focusCountry}
					b, _ := json.Marshal(ack)
					_ = conn.WriteMessage(websocket.TextMessage, b)
					continue
				case "chat":
					userMessage = ctrl.Content
				}
			}
		}
		if userMessage == "" {
			continue
		}

		interceptor := &chunkWriter{conn: conn}
		answer, err := h.chatService.Respond(c.Request.Context(), claims.SessionID, userMessage, focusCountry, interceptor)
		if err != nil {
			log.Errorf("处理对话回合失败: session=%s, err=%v", claims.SessionID, err)
			// 转录保存失败时没有生成内容可回传，退化为通用失败提示
			if answer == "" {
				answer = llm.FailureMessage(err)
			}
			errResp := map[string]string{"error": answer}
			b, _ := json.Marshal(errResp)
			_ = conn.WriteMessage(websocket.TextMessage, b)
		}
		sendCompletion(conn)
	}
}

// History 返回当前会话的完整转录。
func (h *ChatHandler) History(c *gin.Context) {
	claims := c.MustGet("claims").(*token.SessionClaims)

	transcript, err := h.chatService.History(c.Request.Context(), claims.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to retrieve conversation history",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": transcript})
}

// EndSession 结束会话并删除其转录。
func (h *ChatHandler) EndSession(c *gin.Context) {
	claims := c.MustGet("claims").(*token.SessionClaims)

	if err := h.chatService.EndSession(c.Request.Context(), claims.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to end session",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}

// chunkWriter 把生成的原始分块包装成 {"chunk":"..."} 下发。
type chunkWriter struct {
	conn *websocket.Conn
}

// WriteMessage 满足 llm.MessageWriter 接口。
func (w *chunkWriter) WriteMessage(messageType int, data []byte) error {
	payload := map[string]string{"chunk": string(data)}
	b, _ := json.Marshal(payload)
	return w.conn.WriteMessage(messageType, b)
}

// sendCompletion 发送完成通知 JSON。
func sendCompletion(ws *websocket.Conn) {
	notif := map[string]interface{}{
		"type":      "completion",
		"status":    "finished",
		"timestamp": time.Now().UnixMilli(),
		"date":      time.Now().Format("2006-01-02T15:04:05"),
	}
	b, _ := json.Marshal(notif)
	_ = ws.WriteMessage(websocket.TextMessage, b)
}
