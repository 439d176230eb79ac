package posts

import (
	"net/http"
	"strconv"

	"social-blog-backend/internal/errors"
	"social-blog-backend/internal/form"
	"social-blog-backend/internal/middleware"
	"social-blog-backend/internal/model"
	"social-blog-backend/internal/pagination"
	"social-blog-backend/internal/service"
	"social-blog-backend/internal/storage"
	"social-blog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理帖子、评论和关注相关的页面
type PostHandler struct {
	postService   *service.PostService
	userService   *service.UserService
	followService *service.FollowService
	storage       storage.FileStorage
	pageSize      int
}

func NewPostHandler(postService *service.PostService, userService *service.UserService,
	followService *service.FollowService, fileStorage storage.FileStorage, pageSize int) *PostHandler {
	return &PostHandler{
		postService:   postService,
		userService:   userService,
		followService: followService,
		storage:       fileStorage,
		pageSize:      pageSize,
	}
}

func (h *PostHandler) paginate(c *gin.Context, posts []*model.Post) pagination.Page {
	number := pagination.ParsePage(c.Query("page"))
	return pagination.Paginate(posts, number, h.pageSize)
}

// Index 首页，展示全部帖子
func (h *PostHandler) Index(c *gin.Context) {
	posts, err := h.postService.ListAllPosts()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取帖子列表失败", err))
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"page": h.paginate(c, posts),
	})
}

// GroupPosts 分组页，展示某个分组的帖子
func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, err := h.postService.GetGroupBySlug(c.Param("slug"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取分组失败", err))
		return
	}
	if group == nil {
		errors.NotFoundPage(c)
		return
	}

	posts, err := h.postService.ListGroupPosts(group.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取帖子列表失败", err))
		return
	}
	c.HTML(http.StatusOK, "group_list.html", gin.H{
		"group": group,
		"page":  h.paginate(c, posts),
	})
}

// Profile 个人主页，展示作者的帖子和关注状态
func (h *PostHandler) Profile(c *gin.Context) {
	author, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取用户失败", err))
		return
	}
	if author == nil {
		errors.NotFoundPage(c)
		return
	}

	posts, err := h.postService.ListAuthorPosts(author.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取帖子列表失败", err))
		return
	}

	following := false
	if viewerID, ok := middleware.CurrentUserID(c); ok {
		following, _ = h.followService.IsFollowing(viewerID, author.ID)
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"author":    author,
		"postCount": len(posts),
		"page":      h.paginate(c, posts),
		"following": following,
	})
}

// PostDetail 帖子详情页，带评论列表和评论表单
func (h *PostHandler) PostDetail(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	comments, err := h.postService.ListComments(post.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取评论失败", err))
		return
	}
	count, _ := h.postService.CountAuthorPosts(post.AuthorID)

	c.HTML(http.StatusOK, "post_detail.html", gin.H{
		"post":     post,
		"count":    count,
		"comments": comments,
		"form":     gin.H{},
	})
}

// CreatePostForm 渲染发帖表单
func (h *PostHandler) CreatePostForm(c *gin.Context) {
	c.HTML(http.StatusOK, "create_post.html", gin.H{
		"isEdit": false,
		"errors": form.Errors{},
	})
}

// CreatePost 创建帖子。校验失败时带错误重新渲染表单，
// 成功后跳转到作者的个人主页
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetInt(middleware.ContextUserKey)

	f := h.bindPostForm(c)
	if errs := f.Validate(); !errs.Valid() {
		c.HTML(http.StatusOK, "create_post.html", gin.H{
			"isEdit": false,
			"errors": errs,
			"text":   f.Text,
		})
		return
	}

	imagePath, err := h.saveImage(f)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "图片上传失败", err))
		return
	}

	post := &model.Post{
		AuthorID:  userID,
		Text:      f.Text,
		GroupID:   f.GroupID,
		ImagePath: imagePath,
	}
	if err := h.postService.CreatePost(post); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "创建帖子失败", err))
		return
	}

	author, err := h.userService.GetByID(userID)
	if err != nil || author == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

// EditPostForm 渲染编辑表单，只有作者本人可以进入
func (h *PostHandler) EditPostForm(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if !h.requireAuthor(c, post) {
		return
	}

	c.HTML(http.StatusOK, "create_post.html", gin.H{
		"isEdit": true,
		"postID": post.ID,
		"text":   post.Text,
		"errors": form.Errors{},
	})
}

// EditPost 保存编辑。作者和发布时间不可变，其余字段可改
func (h *PostHandler) EditPost(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if !h.requireAuthor(c, post) {
		return
	}

	f := h.bindPostForm(c)
	if errs := f.Validate(); !errs.Valid() {
		c.HTML(http.StatusOK, "create_post.html", gin.H{
			"isEdit": true,
			"postID": post.ID,
			"errors": errs,
			"text":   f.Text,
		})
		return
	}

	post.Text = f.Text
	post.GroupID = f.GroupID
	if f.Image != nil {
		imagePath, err := h.saveImage(f)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInternal, "图片上传失败", err))
			return
		}
		post.ImagePath = imagePath
	}

	if err := h.postService.UpdatePost(post); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "更新帖子失败", err))
		return
	}
	c.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(post.ID)+"/")
}

// DeletePost 删除帖子，只有作者本人可以操作。
// 帖子下的评论保留，帖子引用置空
func (h *PostHandler) DeletePost(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if !h.requireAuthor(c, post) {
		return
	}

	if err := h.postService.DeletePost(post.ID); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "删除帖子失败", err))
		return
	}
	if post.ImagePath != "" {
		if err := h.storage.DeleteFile(post.ImagePath); err != nil {
			util.Logger.Error("删除帖子图片失败", zap.Error(err), zap.String("path", post.ImagePath))
		}
	}

	author, err := h.userService.GetByID(post.AuthorID)
	if err != nil || author == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}

// AddComment 发表评论。文本无效时不保存也不提示，
// 与成功时一样跳回帖子详情页
func (h *PostHandler) AddComment(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	f := &form.CommentForm{Text: c.PostForm("text")}
	if errs := f.Validate(); errs.Valid() {
		userID := c.GetInt(middleware.ContextUserKey)
		comment := &model.Comment{
			PostID:   &post.ID,
			AuthorID: userID,
			Text:     f.Text,
		}
		if err := h.postService.AddComment(comment); err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "创建评论失败", err))
			return
		}
	}
	c.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(post.ID)+"/")
}

// FollowIndex 关注页，展示已关注作者的帖子
func (h *PostHandler) FollowIndex(c *gin.Context) {
	userID := c.GetInt(middleware.ContextUserKey)
	posts, err := h.postService.ListFollowedPosts(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取关注帖子失败", err))
		return
	}
	c.HTML(http.StatusOK, "follow.html", gin.H{
		"page": h.paginate(c, posts),
	})
}

// ProfileFollow 关注作者。自我关注静默忽略，重复关注幂等
func (h *PostHandler) ProfileFollow(c *gin.Context) {
	author, ok := h.loadAuthor(c)
	if !ok {
		return
	}
	userID := c.GetInt(middleware.ContextUserKey)
	if err := h.followService.Follow(userID, author.ID); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "关注失败", err))
		return
	}
	c.Redirect(http.StatusFound, "/follow/")
}

// ProfileUnfollow 取消关注，关系不存在时静默跳转
func (h *PostHandler) ProfileUnfollow(c *gin.Context) {
	author, ok := h.loadAuthor(c)
	if !ok {
		return
	}
	userID := c.GetInt(middleware.ContextUserKey)
	if err := h.followService.Unfollow(userID, author.ID); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "取消关注失败", err))
		return
	}
	c.Redirect(http.StatusFound, "/follow/")
}

// loadPost 解析路径中的帖子ID并加载帖子，失败时渲染404
func (h *PostHandler) loadPost(c *gin.Context) (*model.Post, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.NotFoundPage(c)
		return nil, false
	}
	post, err := h.postService.GetPostByID(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取帖子失败", err))
		return nil, false
	}
	if post == nil {
		errors.NotFoundPage(c)
		return nil, false
	}
	return post, true
}

// loadAuthor 加载路径中的作者，失败时渲染404
func (h *PostHandler) loadAuthor(c *gin.Context) (*model.User, bool) {
	author, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取用户失败", err))
		return nil, false
	}
	if author == nil {
		errors.NotFoundPage(c)
		return nil, false
	}
	return author, true
}

// requireAuthor 校验当前用户是帖子作者。不是作者时
// 静默跳转到帖子详情页而不是报错
func (h *PostHandler) requireAuthor(c *gin.Context, post *model.Post) bool {
	userID := c.GetInt(middleware.ContextUserKey)
	if userID != post.AuthorID {
		c.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(post.ID)+"/")
		c.Abort()
		return false
	}
	return true
}

// bindPostForm 从请求中取出发帖表单的各个字段
func (h *PostHandler) bindPostForm(c *gin.Context) *form.PostForm {
	f := &form.PostForm{
		Text: c.PostForm("text"),
	}
	if raw := c.PostForm("group"); raw != "" {
		if groupID, err := strconv.Atoi(raw); err == nil {
			f.GroupID = &groupID
		}
	}
	if file, err := c.FormFile("image"); err == nil {
		f.Image = file
	}
	return f
}

// saveImage 把上传的图片存到 posts/ 命名空间，返回存储路径
func (h *PostHandler) saveImage(f *form.PostForm) (string, error) {
	if f.Image == nil {
		return "", nil
	}
	filename := util.GenerateUniqueFilename(f.Image.Filename)
	return h.storage.UploadFile(f.Image, "posts/"+filename)
}
