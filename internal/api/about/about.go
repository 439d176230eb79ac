package about

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AboutHandler 提供静态介绍页面
type AboutHandler struct{}

func NewAboutHandler() *AboutHandler {
	return &AboutHandler{}
}

// Author 关于作者页面
func (h *AboutHandler) Author(c *gin.Context) {
	c.HTML(http.StatusOK, "about_author.html", gin.H{})
}

// Tech 关于技术栈页面
func (h *AboutHandler) Tech(c *gin.Context) {
	c.HTML(http.StatusOK, "about_tech.html", gin.H{})
}
