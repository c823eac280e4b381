// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"net/http"
	"strings"

	"country-insight-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// SessionAuthMiddleware 验证请求携带的会话令牌。
// 令牌可以放在 Authorization: Bearer 头或 token 查询参数中；
// 验证通过后把 claims 写入上下文供后续处理函数使用。
func SessionAuthMiddleware(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "missing session token",
				"data":    nil,
			})
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid session token",
				"data":    nil,
			})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
