package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	SessionSecret    string
	LogLevel         string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	DomainName       string
	FrontendURL      string
	BackendURL       string
	StorageBackend   string // local | s3 | gcs
	S3Region         string
	S3Bucket         string
	GCSProjectID     string
	GCSBucketName    string
	GCSCredentials   string
	LocalStoragePath string
	PageSize         int           // 列表页每页帖子数
	IndexCacheTTL    time.Duration // 首页缓存存活时间
	Debug            bool          // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	err := godotenv.Load()
	if err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	// 从环境变量中读取配置
	AppConfig = Config{
		DBHost:           getEnv("DB_HOST", ""),
		DBPort:           getEnv("DB_PORT", ""),
		DBUser:           getEnv("DB_USER", ""),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBName:           getEnv("DB_NAME", ""),
		SessionSecret:    getEnv("SESSION_SECRET", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		DomainName:       getEnv("DOMAIN_NAME", "localhost"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:8080"),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:8080"),
		StorageBackend:   getEnv("STORAGE_BACKEND", "local"),
		S3Region:         getEnv("S3_REGION", "us-west-2"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		GCSProjectID:     getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:    getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentials:   getEnv("GCS_CREDENTIALS_FILE", ""),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		PageSize:         getEnvAsInt("PAGE_SIZE", 10),
		IndexCacheTTL:    time.Duration(getEnvAsInt("INDEX_CACHE_TTL_SECONDS", 20)) * time.Second,
		Debug:            getEnvAsBool("DEBUG", true),
	}

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。数据库：%s:%s", AppConfig.DBHost, AppConfig.DBPort)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	if AppConfig.DBHost == "" || AppConfig.DBPort == "" || AppConfig.DBUser == "" || AppConfig.DBPassword == "" || AppConfig.DBName == "" {
		log.Fatal("错误：数据库配置不完整")
	}
	if AppConfig.SessionSecret == "" {
		log.Fatal("错误：会话密钥未设置")
	}
	if AppConfig.PageSize <= 0 {
		log.Fatal("错误：每页帖子数必须大于零")
	}
}
