package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"enrollment-api/config"
	"enrollment-api/internal/api/handler"
	"enrollment-api/internal/api/middleware"
	"enrollment-api/internal/api/router"
	"enrollment-api/internal/oauth"
	"enrollment-api/internal/repository"
	"enrollment-api/internal/service"
	"enrollment-api/pkg/database"
	"enrollment-api/pkg/jwt"
	applogger "enrollment-api/pkg/logger"
	"enrollment-api/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ENROLL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("database", cfg.Mongo.Database),
	)

	// 3. 连接 MongoDB
	store, err := database.NewStore(context.Background(), &cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行索引迁移
	if cfg.Mongo.RunMigrations {
		if err := database.RunMigrations(store, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，会话仅凭签名校验且登录不限流", zap.Error(err))
			rdb = nil
		}
	}

	// 接口变量只在 Redis 可用时赋值，避免 typed nil
	var (
		sessions service.SessionStore
		limiter  middleware.Limiter
	)
	deps := map[string]handler.Pinger{"mongo": store}
	if rdb != nil {
		sessions = rdb
		limiter = rdb
		deps["redis"] = rdb
	}

	// 5. 会话 Token 与 GitHub OAuth
	jwtMgr := jwt.NewManager(&cfg.Auth)

	var provider oauth.Provider
	if cfg.Auth.OAuthEnabled() {
		provider = oauth.NewGitHub(&cfg.Auth.GitHub)
	} else {
		logger.Warn("未配置 GitHub OAuth，/login 不可用")
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(store.Database())
	svc := service.NewService(repo, provider, jwtMgr, sessions, logger)
	h := handler.NewHandler(cfg, svc, deps, logger)

	// 7. 初始化路由
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	engine := router.Setup(cfg, h, router.Deps{
		Authn:    svc.Auth,
		Limiter:  limiter,
		Registry: reg,
	}, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if err := store.Close(ctx); err != nil {
		logger.Error("关闭 MongoDB 连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}
