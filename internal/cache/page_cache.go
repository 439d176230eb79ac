package cache

import (
	"bytes"
	"net/http"
	"time"

	"social-blog-backend/internal/util"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// cachedResponse 保存一次完整渲染的响应
type cachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// PageCache 按 (路径, page参数) 缓存渲染好的页面。
// 只按时间失效：TTL 内的写操作不会反映到缓存的页面里
type PageCache struct {
	store *gocache.Cache
}

// NewPageCache 创建一个页面缓存，ttl 是缓存条目的存活时间
func NewPageCache(ttl time.Duration) *PageCache {
	return &PageCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Middleware 返回缓存中间件。命中时直接写出缓存的响应体，
// 未命中时放行并在渲染成功后存储响应体
func (p *PageCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.Path + "?page=" + c.Query("page")
		if entry, found := p.store.Get(key); found {
			resp := entry.(cachedResponse)
			c.Data(resp.Status, resp.ContentType, resp.Body)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		// 只缓存成功渲染的页面
		if writer.Status() == http.StatusOK {
			p.store.SetDefault(key, cachedResponse{
				Status:      writer.Status(),
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			})
			util.Logger.Debug("页面已缓存", zap.String("key", key))
		}
	}
}

// Flush 清空全部缓存条目
func (p *PageCache) Flush() {
	p.store.Flush()
}

// bodyCaptureWriter 在写出响应的同时保留一份副本
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
