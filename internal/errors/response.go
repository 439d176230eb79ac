package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	// 系统错误 (1000-1999)
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrCache:    http.StatusInternalServerError,

	// 认证错误 (2000-2999)
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidCredentials: http.StatusUnauthorized,

	// 请求错误 (3000-3999)
	ErrBadRequest: http.StatusBadRequest,
	ErrValidation: http.StatusBadRequest,
	ErrNotFound:   http.StatusNotFound,

	// 业务错误 (4000-4999)
	ErrUserNotFound:  http.StatusNotFound,
	ErrUserExists:    http.StatusConflict,
	ErrPostNotFound:  http.StatusNotFound,
	ErrGroupNotFound: http.StatusNotFound,
	ErrTokenExpired:  http.StatusGone,
}

// StatusOf 返回错误对应的HTTP状态码
func StatusOf(err error) int {
	if appErr, ok := err.(*AppError); ok {
		if status, ok := errorStatusMap[appErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// NotFoundPage 渲染专用的404页面
func NotFoundPage(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"path": c.Request.URL.Path,
	})
}

// HandleError 统一处理错误响应。缺失的资源渲染404页面，
// 其余错误渲染错误页面
func HandleError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusNotFound {
		NotFoundPage(c)
		return
	}

	message := "服务器内部错误"
	if appErr, ok := err.(*AppError); ok {
		message = appErr.Message
	}
	c.HTML(status, "error.html", gin.H{
		"message": message,
	})
}
