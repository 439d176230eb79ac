package posts

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"social-blog-backend/internal/cache"
	"social-blog-backend/internal/middleware"
	"social-blog-backend/internal/model"
	"social-blog-backend/internal/service"
	"social-blog-backend/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	util.InitLogger("error")
	gin.SetMode(gin.TestMode)
}

// ---- 内存存储库，测试专用 ----

type fakePostRepo struct {
	posts  []*model.Post
	nextID int
}

func (r *fakePostRepo) Create(post *model.Post) error {
	r.nextID++
	post.ID = r.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	// 新帖排在最前，保持倒序快照
	r.posts = append([]*model.Post{post}, r.posts...)
	return nil
}

func (r *fakePostRepo) GetByID(id int) (*model.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) Update(post *model.Post) error { return nil }

func (r *fakePostRepo) Delete(id int) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePostRepo) ListAll() ([]*model.Post, error) {
	return append([]*model.Post{}, r.posts...), nil
}

func (r *fakePostRepo) ListByGroup(groupID int) ([]*model.Post, error) {
	var out []*model.Post
	for _, p := range r.posts {
		if p.GroupID != nil && *p.GroupID == groupID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListByAuthor(authorID int) ([]*model.Post, error) {
	var out []*model.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListByFollowed(userID int) ([]*model.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) CountByAuthor(authorID int) (int, error) {
	posts, _ := r.ListByAuthor(authorID)
	return len(posts), nil
}

type fakeUserRepo struct {
	users []*model.User
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = len(r.users) + 1
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) FindByID(id int) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error { return nil }
func (r *fakeUserRepo) Delete(id int) error                                 { return nil }
func (r *fakeUserRepo) CreatePasswordReset(reset *model.PasswordReset) error {
	return nil
}
func (r *fakeUserRepo) FindPasswordReset(token string) (*model.PasswordReset, error) {
	return nil, nil
}
func (r *fakeUserRepo) DeletePasswordReset(token string) error { return nil }

type fakeGroupRepo struct{}

func (r *fakeGroupRepo) Create(group *model.Group) error          { return nil }
func (r *fakeGroupRepo) GetBySlug(slug string) (*model.Group, error) { return nil, nil }
func (r *fakeGroupRepo) Delete(id int) error                      { return nil }

type fakeCommentRepo struct {
	comments []*model.Comment
}

func (r *fakeCommentRepo) Create(comment *model.Comment) error {
	comment.ID = len(r.comments) + 1
	comment.CreatedAt = time.Now()
	comment.Author = &model.User{Username: "评论者"}
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeCommentRepo) ListByPost(postID int) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, cm := range r.comments {
		if cm.PostID != nil && *cm.PostID == postID {
			out = append(out, cm)
		}
	}
	return out, nil
}

type fakeFollowRepo struct{}

func (r *fakeFollowRepo) Create(follow *model.Follow) error      { return nil }
func (r *fakeFollowRepo) Delete(userID, authorID int) error      { return nil }
func (r *fakeFollowRepo) Exists(userID, authorID int) (bool, error) { return false, nil }

// ---- 测试环境组装 ----

type testEnv struct {
	postRepo    *fakePostRepo
	userRepo    *fakeUserRepo
	commentRepo *fakeCommentRepo
	handler     *PostHandler
}

func newTestEnv(pageSize int) *testEnv {
	postRepo := &fakePostRepo{}
	userRepo := &fakeUserRepo{}
	commentRepo := &fakeCommentRepo{}

	postService := service.NewPostService(postRepo, &fakeGroupRepo{}, commentRepo)
	userService := service.NewUserService(userRepo, nil)
	followService := service.NewFollowService(&fakeFollowRepo{})

	handler := NewPostHandler(postService, userService, followService, nil, pageSize)
	return &testEnv{
		postRepo:    postRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		handler:     handler,
	}
}

// newTestRouter 按照主程序的路由表组装测试路由，
// 额外挂一个写会话的登录辅助路由
func newTestRouter(h *PostHandler, indexMiddleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("session", store))
	r.LoadHTMLGlob("../../../templates/*.html")

	r.GET("/", append(indexMiddleware, h.Index)...)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:id/", h.PostDetail)

	authorized := r.Group("/", middleware.LoginRequired())
	authorized.GET("/create/", h.CreatePostForm)
	authorized.POST("/create/", h.CreatePost)
	authorized.GET("/posts/:id/edit/", h.EditPostForm)
	authorized.POST("/posts/:id/comment/", h.AddComment)
	authorized.POST("/posts/:id/delete/", h.DeletePost)

	r.GET("/testlogin/:id/", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		_ = middleware.Login(c, id)
		c.Status(http.StatusOK)
	})
	return r
}

func loginCookie(t *testing.T, r *gin.Engine, userID int) string {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/testlogin/"+strconv.Itoa(userID)+"/", nil)
	r.ServeHTTP(w, req)
	c := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, c)
	return c
}

func get(r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path, cookie string, values url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) addUser(username string) *model.User {
	u := &model.User{Username: username, Email: username + "@example.com"}
	_ = e.userRepo.Create(u)
	return u
}

func (e *testEnv) addPost(author *model.User, text string) *model.Post {
	p := &model.Post{AuthorID: author.ID, Text: text, Author: author}
	_ = e.postRepo.Create(p)
	return p
}

// ---- 用例 ----

func TestCreateRequiresLogin(t *testing.T) {
	env := newTestEnv(10)
	r := newTestRouter(env.handler)

	w := get(r, "/create/", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/create/", w.Header().Get("Location"))
}

func TestEditByNonAuthorRedirects(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	bob := env.addUser("bob")
	post := env.addPost(alice, "只有作者能改")

	r := newTestRouter(env.handler)
	cookie := loginCookie(t, r, bob.ID)

	w := get(r, "/posts/"+strconv.Itoa(post.ID)+"/edit/", cookie)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts/"+strconv.Itoa(post.ID)+"/", w.Header().Get("Location"))
}

func TestEditByAuthorShowsForm(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	post := env.addPost(alice, "作者本人编辑")

	r := newTestRouter(env.handler)
	cookie := loginCookie(t, r, alice.ID)

	w := get(r, "/posts/"+strconv.Itoa(post.ID)+"/edit/", cookie)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "作者本人编辑")
}

func TestProfilePagination(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	for i := 0; i < 15; i++ {
		env.addPost(alice, "帖子 "+strconv.Itoa(i))
	}
	r := newTestRouter(env.handler)

	w := get(r, "/profile/alice/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, strings.Count(w.Body.String(), "<article"))

	w = get(r, "/profile/alice/?page=2", "")
	assert.Equal(t, 5, strings.Count(w.Body.String(), "<article"))

	// 越界页码回落到最后一页
	w = get(r, "/profile/alice/?page=99", "")
	assert.Equal(t, 5, strings.Count(w.Body.String(), "<article"))
}

func TestProfileShowsPostCount(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	for i := 0; i < 3; i++ {
		env.addPost(alice, "统计")
	}
	r := newTestRouter(env.handler)

	w := get(r, "/profile/alice/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "共 3 篇帖子")
}

func TestUnknownPostRenders404(t *testing.T) {
	env := newTestEnv(10)
	r := newTestRouter(env.handler)

	w := get(r, "/posts/999/", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexCacheServesStaleSnapshot(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	env.addPost(alice, "留下的帖子")
	deleted := env.addPost(alice, "将被删除的帖子")

	pageCache := cache.NewPageCache(150 * time.Millisecond)
	r := newTestRouter(env.handler, pageCache.Middleware())

	first := get(r, "/", "")
	require.Equal(t, http.StatusOK, first.Code)
	require.Contains(t, first.Body.String(), "将被删除的帖子")

	// 直接从存储库删除，不触发任何缓存清理
	require.NoError(t, env.postRepo.Delete(deleted.ID))

	// 存活期内仍然返回旧快照
	stale := get(r, "/", "")
	assert.Equal(t, first.Body.String(), stale.Body.String())

	time.Sleep(200 * time.Millisecond)

	fresh := get(r, "/", "")
	assert.NotContains(t, fresh.Body.String(), "将被删除的帖子")
	assert.Contains(t, fresh.Body.String(), "留下的帖子")
}

func TestAddCommentIgnoresBlankText(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	post := env.addPost(alice, "求评论")

	r := newTestRouter(env.handler)
	cookie := loginCookie(t, r, alice.ID)

	w := postForm(r, "/posts/"+strconv.Itoa(post.ID)+"/comment/", cookie,
		url.Values{"text": {"   "}})

	// 无效评论不保存，但一样跳回详情页
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts/"+strconv.Itoa(post.ID)+"/", w.Header().Get("Location"))
	assert.Empty(t, env.commentRepo.comments)
}

func TestAddCommentPersistsValidText(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	post := env.addPost(alice, "求评论")

	r := newTestRouter(env.handler)
	cookie := loginCookie(t, r, alice.ID)

	w := postForm(r, "/posts/"+strconv.Itoa(post.ID)+"/comment/", cookie,
		url.Values{"text": {"写得不错"}})

	assert.Equal(t, http.StatusFound, w.Code)
	require.Len(t, env.commentRepo.comments, 1)
	assert.Equal(t, "写得不错", env.commentRepo.comments[0].Text)
	assert.Equal(t, alice.ID, env.commentRepo.comments[0].AuthorID)

	detail := get(r, "/posts/"+strconv.Itoa(post.ID)+"/", "")
	assert.Contains(t, detail.Body.String(), "写得不错")
}

func TestCreatePostRedirectsToProfile(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")

	r := newTestRouter(env.handler)
	cookie := loginCookie(t, r, alice.ID)

	w := postForm(r, "/create/", cookie, url.Values{"text": {"新帖子"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/alice/", w.Header().Get("Location"))
	require.Len(t, env.postRepo.posts, 1)
	assert.Equal(t, alice.ID, env.postRepo.posts[0].AuthorID)
}

func TestCreatePostBlankTextRerendersForm(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")

	r := newTestRouter(env.handler)
	cookie := loginCookie(t, r, alice.ID)

	w := postForm(r, "/create/", cookie, url.Values{"text": {"  "}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "这个字段是必填项")
	assert.Empty(t, env.postRepo.posts)
}

func TestDeletePostKeepsOthers(t *testing.T) {
	env := newTestEnv(10)
	alice := env.addUser("alice")
	keep := env.addPost(alice, "保留")
	doomed := env.addPost(alice, "删除")

	r := newTestRouter(env.handler)
	cookie := loginCookie(t, r, alice.ID)

	w := postForm(r, "/posts/"+strconv.Itoa(doomed.ID)+"/delete/", cookie, url.Values{})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/alice/", w.Header().Get("Location"))
	require.Len(t, env.postRepo.posts, 1)
	assert.Equal(t, keep.ID, env.postRepo.posts[0].ID)
}
