// Package token 提供了用于生成和验证会话令牌 (JWT) 的功能。
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager 负责管理会话令牌的生成和验证。
type JWTManager struct {
	secretKey       []byte        // 用于签名和验证 token 的密钥
	sessionTokenDur time.Duration // 会话令牌的有效期
}

// SessionClaims 定义了存储在会话令牌中的自定义数据。
// 它嵌入了 jwt.RegisteredClaims 以包含标准的 JWT 声明（如过期时间）。
type SessionClaims struct {
	SessionID    string `json:"sessionId"`
	FocusCountry string `json:"focusCountry,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTManager 创建一个新的 JWTManager 实例。
// secret: 用于签名的密钥字符串。
// sessionTokenExpireHours: 会话令牌的过期时间（小时）。
func NewJWTManager(secret string, sessionTokenExpireHours int) *JWTManager {
	return &JWTManager{
		secretKey:       []byte(secret),
		sessionTokenDur: time.Hour * time.Duration(sessionTokenExpireHours),
	}
}

// GenerateSessionToken 为一个新的对话会话生成令牌。
// focusCountry 可以为空，表示会话不绑定焦点国家。
func (m *JWTManager) GenerateSessionToken(sessionID, focusCountry string) (string, error) {
	claims := SessionClaims{
		SessionID:    sessionID,
		FocusCountry: focusCountry,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.sessionTokenDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken 验证给定的令牌字符串。
// 令牌有效时返回 SessionClaims；签名不匹配或已过期时返回错误。
func (m *JWTManager) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// NewSessionID generates a random hex session identifier.
func NewSessionID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a less random string on error
		return fmt.Sprintf("fallback%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
