package middleware

import (
	"net/http"

	"social-blog-backend/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 会话和请求上下文中保存当前用户ID的键
const (
	SessionUserKey = "user_id"
	ContextUserKey = "user_id"
	LoginPath      = "/auth/login/"
)

// LoginRequired 要求请求携带已登录的会话。未登录的请求
// 被重定向到登录页，并携带原始路径以便登录后跳回
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		value := session.Get(SessionUserKey)
		userID, ok := value.(int)
		if !ok {
			util.Logger.Info("未登录访问受限页面", zap.String("path", c.Request.URL.Path))
			c.Redirect(http.StatusFound, LoginPath+"?next="+c.Request.URL.Path)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// CurrentUserID 返回请求上下文或会话中的当前用户ID。
// 公开页面用它判断访问者是否登录
func CurrentUserID(c *gin.Context) (int, bool) {
	if value, exists := c.Get(ContextUserKey); exists {
		if id, ok := value.(int); ok {
			return id, true
		}
	}
	session := sessions.Default(c)
	if id, ok := session.Get(SessionUserKey).(int); ok {
		return id, true
	}
	return 0, false
}

// Login 把用户ID写入会话
func Login(c *gin.Context, userID int) error {
	session := sessions.Default(c)
	session.Set(SessionUserKey, userID)
	return session.Save()
}

// Logout 清空会话
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}
