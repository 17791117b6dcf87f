package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"social-backend/config"
	"social-backend/internal/api/comment"
	"social-backend/internal/api/conversation"
	"social-backend/internal/api/follow"
	"social-backend/internal/api/notification"
	"social-backend/internal/api/post"
	"social-backend/internal/api/trend"
	"social-backend/internal/api/user"
	"social-backend/internal/cache"
	"social-backend/internal/middleware"
	"social-backend/internal/repository/gormdb"
	"social-backend/internal/service"
	"social-backend/internal/storage"
	"social-backend/internal/telemetry"
	"social-backend/internal/util"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const lruCacheSize = 4096

func main() {
	app := cli.App{
		Name:  "social-backend",
		Usage: "社交网络后端服务",
	}

	app.Before = func(cctx *cli.Context) error {
		// 初始化配置和日志
		config.Init()
		util.InitLogger(config.AppConfig.LogLevel)
		return nil
	}
	app.After = func(cctx *cli.Context) error {
		_ = util.Logger.Sync()
		return nil
	}

	app.Commands = []*cli.Command{
		serveCmd,
		migrateCmd,
		reconcileCmd,
	}
	app.DefaultCommand = "serve"

	app.RunAndExitOnError()
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "启动 HTTP 服务",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			EnvVars: []string{"PORT"},
			Value:   "8080",
		},
		&cli.DurationFlag{
			Name:  "shutdown-timeout",
			Value: 5 * time.Second,
		},
		&cli.BoolFlag{
			Name: "print-routes",
		},
	},
	Action: func(cctx *cli.Context) error {
		cfg := config.AppConfig
		ctx := cctx.Context

		util.Logger.Info("应用程序启动")

		if cfg.SentryDSN != "" {
			if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, AttachStacktrace: true}); err != nil {
				util.Logger.Error("初始化 Sentry 失败", zap.Error(err))
			} else {
				defer sentry.Flush(2 * time.Second)
			}
		}

		shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("初始化 tracing 失败: %w", err)
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				util.Logger.Error("关闭 tracing 失败", zap.Error(err))
			}
		}()

		store, closeDB, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		userCache, err := newUserCache(cfg)
		if err != nil {
			return err
		}

		if cfg.StorageDriver == "local" {
			ensureUploadsFolder(cfg.LocalStoragePath)
		}
		media, err := storage.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("初始化存储失败: %w", err)
		}

		// 初始化服务和处理器
		hydrator := service.NewHydrator(store, userCache)
		notificationService := service.NewNotificationService(store, service.NewSettingsPolicy(store.Users()), hydrator)
		userService := service.NewUserService(store, hydrator)
		postService := service.NewPostService(store, media, notificationService, hydrator)
		commentService := service.NewCommentService(store, notificationService, hydrator)
		followService := service.NewFollowService(store, notificationService, hydrator)
		conversationService := service.NewConversationService(store, hydrator)
		trendService := service.NewTrendService(store, cfg.TrendsLimit)

		h := handlers{
			auth:          user.NewAuthHandler(userService),
			profile:       user.NewProfileHandler(userService),
			posts:         post.NewPostHandler(postService),
			comments:      comment.NewCommentHandler(commentService),
			follows:       follow.NewFollowHandler(followService),
			conversations: conversation.NewConversationHandler(conversationService),
			notifications: notification.NewNotificationHandler(notificationService),
			trends:        trend.NewTrendHandler(trendService),
		}

		// 注册自定义验证器
		util.RegisterValidators()

		r := newEngine(cfg)
		authCfg := middleware.AuthConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Timeout: cfg.DBTimeout}
		registerRoutes(r, h, middleware.IdentityMiddleware(authCfg), middleware.AuthMiddleware(authCfg, userService))

		if cctx.Bool("print-routes") || cfg.Debug {
			util.Logger.Info("已注册的路由列表：")
			for _, route := range r.Routes() {
				util.Logger.Info("路由",
					zap.String("method", route.Method),
					zap.String("path", route.Path),
					zap.String("handler", route.Handler))
			}
		}

		srv := &http.Server{
			Addr:              ":" + cctx.String("port"),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// 在一个新的 goroutine 中启动服务器
		errCh := make(chan error, 1)
		go func() {
			util.Logger.Info("服务器正在启动", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		// 等待中断信号以优雅地关闭服务器
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case err := <-errCh:
			return fmt.Errorf("启动服务器失败: %w", err)
		}
		util.Logger.Info("正在关闭服务器...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cctx.Duration("shutdown-timeout"))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("服务器强制关闭: %w", err)
		}

		util.Logger.Info("服务器已优雅关闭")
		return nil
	},
}

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "执行数据库迁移后退出",
	Action: func(cctx *cli.Context) error {
		_, closeDB, err := openStore(config.AppConfig)
		if err != nil {
			return err
		}
		closeDB()
		util.Logger.Info("数据库迁移完成")
		return nil
	},
}

var reconcileCmd = &cli.Command{
	Name:  "reconcile",
	Usage: "重新计算关注计数和未读计数并修复偏差",
	Action: func(cctx *cli.Context) error {
		store, closeDB, err := openStore(config.AppConfig)
		if err != nil {
			return err
		}
		defer closeDB()

		report, err := service.NewReconcileService(store).Run(cctx.Context)
		if err != nil {
			return fmt.Errorf("校对失败: %w", err)
		}
		util.Logger.Info("校对完成",
			zap.Int("users_checked", report.UsersChecked),
			zap.Int("users_fixed", report.UsersFixed),
			zap.Int("conversations_checked", report.ConversationsChecked),
			zap.Int("unread_fixed", report.UnreadFixed))
		return nil
	},
}

// openStore 连接数据库、执行迁移并返回 Store
func openStore(cfg config.Config) (*gormdb.Store, func(), error) {
	db, err := gormdb.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			util.Logger.Error("关闭数据库失败", zap.Error(err))
		}
	}

	if err := gormdb.Migrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return gormdb.NewStore(db, cfg.DBTimeout), closeDB, nil
}

// newUserCache 配置了 REDIS_ADDR 时使用 Redis，否则使用进程内 LRU
func newUserCache(cfg config.Config) (cache.UserCache, error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		util.Logger.Info("使用 Redis 用户缓存", zap.String("addr", cfg.RedisAddr))
		return cache.NewRedisUserCache(client, cfg.CacheTTL), nil
	}
	lru, err := cache.NewLRUUserCache(lruCacheSize)
	if err != nil {
		return nil, fmt.Errorf("初始化用户缓存失败: %w", err)
	}
	return lru, nil
}

func newEngine(cfg config.Config) *gin.Engine {
	r := gin.New()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(middleware.NewErrorMonitor()))
	r.Use(otelgin.Middleware(telemetry.ServiceName))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))

	// 静态文件的 CORS
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", cfg.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusOK)
				return
			}
		}
		c.Next()
	})

	if cfg.StorageDriver == "local" {
		r.Static("/uploads", cfg.LocalStoragePath)
	}
	return r
}

// 确保上传文件夹存在
func ensureUploadsFolder(uploadsPath string) {
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}
