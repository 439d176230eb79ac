package cache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"social-blog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
}

func newCachedRouter(ttl time.Duration, counter *int) *gin.Engine {
	pageCache := NewPageCache(ttl)
	r := gin.New()
	r.GET("/", pageCache.Middleware(), func(c *gin.Context) {
		*counter++
		c.String(http.StatusOK, fmt.Sprintf("render %d", *counter))
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

// TestCacheServesStaleWithinTTL TTL 内重复请求返回完全相同的响应体，
// 中间发生的写操作不会反映出来
func TestCacheServesStaleWithinTTL(t *testing.T) {
	var renders int
	r := newCachedRouter(200*time.Millisecond, &renders)

	first := get(r, "/")
	second := get(r, "/")

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, renders, "TTL 内不应重新渲染")
}

// TestCacheExpiresAfterTTL TTL 过后重新渲染，新内容可见
func TestCacheExpiresAfterTTL(t *testing.T) {
	var renders int
	r := newCachedRouter(100*time.Millisecond, &renders)

	first := get(r, "/")
	time.Sleep(150 * time.Millisecond)
	second := get(r, "/")

	assert.NotEqual(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, renders)
}

// TestCacheKeyIncludesPage 不同页码互不串缓存
func TestCacheKeyIncludesPage(t *testing.T) {
	var renders int
	r := newCachedRouter(time.Minute, &renders)

	get(r, "/?page=1")
	get(r, "/?page=2")

	assert.Equal(t, 2, renders)
}

// TestCacheSkipsNonGET 非GET请求不走缓存
func TestCacheSkipsNonGET(t *testing.T) {
	pageCache := NewPageCache(time.Minute)
	r := gin.New()
	var posts int
	r.POST("/", pageCache.Middleware(), func(c *gin.Context) {
		posts++
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		r.ServeHTTP(w, req)
	}
	assert.Equal(t, 2, posts)
}
