package auth

import (
	"net/http"
	"strings"

	"social-blog-backend/internal/errors"
	"social-blog-backend/internal/middleware"
	"social-blog-backend/internal/model"
	"social-blog-backend/internal/service"
	"social-blog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理注册、登录、登出和密码重置页面
type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// SignupForm 渲染注册表单
func (h *AuthHandler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

// Signup 注册新用户，成功后跳转到登录页
func (h *AuthHandler) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if username == "" || email == "" || len(password) < 8 {
		c.HTML(http.StatusOK, "signup.html", gin.H{
			"error":    "请填写用户名、邮箱，密码至少8位",
			"username": username,
			"email":    email,
		})
		return
	}

	user := &model.User{Username: username, Email: email}
	if err := h.userService.Register(user, password); err != nil {
		if errors.Is(err, errors.ErrUserExists) {
			c.HTML(http.StatusOK, "signup.html", gin.H{
				"error":    "用户名或邮箱已被使用",
				"username": username,
				"email":    email,
			})
			return
		}
		errors.HandleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// LoginForm 渲染登录表单，保留 next 参数
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"next": c.Query("next"),
	})
}

// Login 校验凭证并写入会话，成功后跳回 next 指向的页面
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.PostForm("next")

	user, err := h.userService.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidCredentials) {
			c.HTML(http.StatusOK, "login.html", gin.H{
				"error":    "用户名或密码错误",
				"username": username,
				"next":     next,
			})
			return
		}
		errors.HandleError(c, err)
		return
	}

	if err := middleware.Login(c, user.ID); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "保存会话失败", err))
		return
	}
	util.Logger.Info("用户登录", zap.String("username", user.Username))

	// 只允许站内相对路径，避免开放跳转
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// Logout 清空会话并跳回首页
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		util.Logger.Error("清空会话失败", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

// PasswordResetForm 渲染密码重置申请表单
func (h *AuthHandler) PasswordResetForm(c *gin.Context) {
	c.HTML(http.StatusOK, "password_reset.html", gin.H{})
}

// PasswordReset 受理重置申请。无论邮箱是否注册都显示已发送，
// 不泄露注册状态
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	if email != "" {
		if err := h.userService.RequestPasswordReset(email); err != nil {
			util.Logger.Error("受理密码重置失败", zap.Error(err))
		}
	}
	c.HTML(http.StatusOK, "password_reset.html", gin.H{"sent": true})
}

// ResetForm 渲染设置新密码的表单
func (h *AuthHandler) ResetForm(c *gin.Context) {
	c.HTML(http.StatusOK, "reset_confirm.html", gin.H{
		"token": c.Param("token"),
	})
}

// Reset 用令牌设置新密码
func (h *AuthHandler) Reset(c *gin.Context) {
	token := c.Param("token")
	password := c.PostForm("password")

	if len(password) < 8 {
		c.HTML(http.StatusOK, "reset_confirm.html", gin.H{
			"token": token,
			"error": "密码至少8位",
		})
		return
	}

	if err := h.userService.ResetPassword(token, password); err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrTokenExpired) {
			c.HTML(http.StatusOK, "reset_confirm.html", gin.H{
				"token": token,
				"error": "重置链接无效或已过期",
			})
			return
		}
		errors.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
