package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-blog-backend/config"
	"social-blog-backend/internal/api/about"
	"social-blog-backend/internal/api/auth"
	"social-blog-backend/internal/api/posts"
	"social-blog-backend/internal/cache"
	"social-blog-backend/internal/errors"
	"social-blog-backend/internal/middleware"
	"social-blog-backend/internal/repository/mysql"
	"social-blog-backend/internal/service"
	"social-blog-backend/internal/storage"
	"social-blog-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", util.ValidateNotBlank)
	}

	// 初始化文件存储
	fileStorage, err := newFileStorage()
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	groupRepo := mysql.NewGroupRepository(db)
	commentRepo := mysql.NewCommentRepository(db)
	followRepo := mysql.NewFollowRepository(db)

	emailService := service.NewEmailService()
	userService := service.NewUserService(userRepo, emailService)
	postService := service.NewPostService(postRepo, groupRepo, commentRepo)
	followService := service.NewFollowService(followRepo)

	postHandler := posts.NewPostHandler(postService, userService, followService,
		fileStorage, config.AppConfig.PageSize)
	authHandler := auth.NewAuthHandler(userService)
	aboutHandler := about.NewAboutHandler()

	// 首页缓存，只按时间失效
	indexCache := cache.NewPageCache(config.AppConfig.IndexCacheTTL)

	// 设置 Gin 路由
	r := gin.Default()
	r.Use(middleware.RecoveryMiddleware())

	// 会话中间件，基于签名 cookie
	store := cookie.NewStore([]byte(config.AppConfig.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("session", store))

	// 配置 CORS，只放开上传文件的跨域读取
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	// 模板和静态文件
	r.LoadHTMLGlob("templates/*.html")
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	// 公开页面
	r.GET("/", indexCache.Middleware(), postHandler.Index)
	r.GET("/group/:slug/", postHandler.GroupPosts)
	r.GET("/profile/:username/", postHandler.Profile)
	r.GET("/posts/:id/", postHandler.PostDetail)
	r.GET("/about/author/", aboutHandler.Author)
	r.GET("/about/tech/", aboutHandler.Tech)

	// 认证页面
	r.GET("/auth/signup/", authHandler.SignupForm)
	r.POST("/auth/signup/", authHandler.Signup)
	r.GET("/auth/login/", authHandler.LoginForm)
	r.POST("/auth/login/", authHandler.Login)
	r.GET("/auth/logout/", authHandler.Logout)
	r.GET("/auth/password_reset/", authHandler.PasswordResetForm)
	r.POST("/auth/password_reset/", authHandler.PasswordReset)
	r.GET("/auth/reset/:token/", authHandler.ResetForm)
	r.POST("/auth/reset/:token/", authHandler.Reset)

	// 需要登录的页面
	authorized := r.Group("/", middleware.LoginRequired())
	{
		authorized.GET("/create/", postHandler.CreatePostForm)
		authorized.POST("/create/", postHandler.CreatePost)
		authorized.GET("/posts/:id/edit/", postHandler.EditPostForm)
		authorized.POST("/posts/:id/edit/", postHandler.EditPost)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)
		authorized.POST("/posts/:id/delete/", postHandler.DeletePost)
		authorized.GET("/follow/", postHandler.FollowIndex)
		authorized.GET("/profile/:username/follow/", postHandler.ProfileFollow)
		authorized.POST("/profile/:username/follow/", postHandler.ProfileFollow)
		authorized.GET("/profile/:username/unfollow/", postHandler.ProfileUnfollow)
		authorized.POST("/profile/:username/unfollow/", postHandler.ProfileUnfollow)
	}

	// 未匹配的路径渲染404页面
	r.NoRoute(func(c *gin.Context) {
		errors.NotFoundPage(c)
	})

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// newFileStorage 根据配置选择文件存储后端
func newFileStorage() (storage.FileStorage, error) {
	switch config.AppConfig.StorageBackend {
	case "s3":
		return storage.NewS3Storage(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
	case "gcs":
		return storage.NewGCSStorage(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentials)
	default:
		return storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
	}
}
