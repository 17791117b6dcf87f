package config

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 保存从环境变量读取的应用配置
type Config struct {
	Port     string
	LogLevel string
	Debug    bool

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	DBTimeout  time.Duration

	JWTSecret string
	JWTIssuer string

	FrontendURL string
	BackendURL  string

	StorageDriver      string
	LocalStoragePath   string
	S3Region           string
	S3Bucket           string
	GCSBucketName      string
	GCSCredentialsFile string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	SentryDSN    string
	OTLPEndpoint string

	TrendsLimit int
}

// AppConfig 全局配置
var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEBUG", false)
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_PATH", "./social.db")
	v.SetDefault("DB_TIMEOUT", "5s")
	v.SetDefault("FRONTEND_URL", "http://localhost:8081")
	v.SetDefault("BACKEND_URL", "http://localhost:8080")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("LOCAL_STORAGE_PATH", "./uploads")
	v.SetDefault("S3_REGION", "us-west-2")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("TRENDS_LIMIT", 10)
}

// Load 从 .env 和环境变量读取配置，不修改 AppConfig
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("警告: 未能加载 .env 文件: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Port:               v.GetString("PORT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Debug:              v.GetBool("DEBUG"),
		DBDriver:           v.GetString("DB_DRIVER"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBPath:             v.GetString("DB_PATH"),
		DBTimeout:          v.GetDuration("DB_TIMEOUT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		FrontendURL:        v.GetString("FRONTEND_URL"),
		BackendURL:         v.GetString("BACKEND_URL"),
		StorageDriver:      v.GetString("STORAGE_DRIVER"),
		LocalStoragePath:   v.GetString("LOCAL_STORAGE_PATH"),
		S3Region:           v.GetString("S3_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		GCSBucketName:      v.GetString("GCS_BUCKET_NAME"),
		GCSCredentialsFile: v.GetString("GCS_CREDENTIALS_FILE"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		CacheTTL:           v.GetDuration("CACHE_TTL"),
		RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		SentryDSN:          v.GetString("SENTRY_DSN"),
		OTLPEndpoint:       v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TrendsLimit:        v.GetInt("TRENDS_LIMIT"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Init 加载配置到 AppConfig 并设置 gin 模式
func Init() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("配置无效: %v", err)
	}
	AppConfig = cfg

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("配置已加载: db=%s storage=%s", AppConfig.DBDriver, AppConfig.StorageDriver)
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("incomplete %s database configuration", c.DBDriver)
		}
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}

	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
	case "gcs":
		if c.GCSBucketName == "" {
			return fmt.Errorf("GCS_BUCKET_NAME is required for gcs storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.DBTimeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT must be positive")
	}
	return nil
}
