package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionUserKey 会话里保存登录用户名的键
const SessionUserKey = "username"

// CheckUserKey gin 上下文里当前用户名的键
const CheckUserKey = "user"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "login required",
			})
			return
		}
		c.Next()
	}
}

// LoadUser 从会话取出用户名放入上下文。用户是否仍然存在由服务层在写操作时校验。
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if username, ok := session.Get(SessionUserKey).(string); ok && username != "" {
			c.Set(CheckUserKey, username)
		}
		c.Next()
	}
}

// CurrentUser 返回当前登录用户名，匿名时为空
func CurrentUser(c *gin.Context) string {
	if v, ok := c.Get(CheckUserKey); ok {
		if username, ok := v.(string); ok {
			return username
		}
	}
	return ""
}
