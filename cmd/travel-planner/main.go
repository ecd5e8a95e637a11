package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/database"
	"github.com/ashwinyue/travel-planner/internal/handler"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/observability"
	"github.com/ashwinyue/travel-planner/internal/repository"
	"github.com/ashwinyue/travel-planner/internal/router"
	"github.com/ashwinyue/travel-planner/internal/service"
	"github.com/ashwinyue/travel-planner/internal/service/callback"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.Server.Mode, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLog.Sync()

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()
	shutdownTracing := observability.InitOTel(ctx, appLog, cfg.App, cfg.Tracing)
	callback.SetupGlobalCallbacks(appLog, cfg.App.Debug)

	// 用户资料依赖数据库，连接失败时降级
	var gormDB *gorm.DB
	if cfg.Database.Enabled {
		db, err := database.New(cfg, appLog)
		if err != nil {
			appLog.Warn("database unavailable, user profiles disabled", "error", err)
		} else {
			defer db.Close()
			gormDB = db.DB
			appLog.Info("database connected", "dbname", cfg.Database.DBName)
		}
	}

	// 酒店缓存依赖 Redis，不可用时只用内存
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			appLog.Warn("redis unavailable, hotel cache is in-memory only", "error", err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
		cancel()
	}

	// 初始化各层
	repos := repository.NewRepositories(gormDB, cfg, appLog)
	services, err := service.NewServices(ctx, cfg, repos, redisClient, appLog)
	if err != nil {
		appLog.Error("failed to init services", "error", err)
		os.Exit(1)
	}
	handlers := handler.NewHandlers(services)

	// 初始化路由
	r := router.SetupRouter(handlers, router.Options{
		ServiceName: cfg.App.Name,
		CORS:        cfg.CORS,
		Verifier:    services.Auth,
		Logger:      appLog,
	})

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 启动服务器
	go func() {
		appLog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Warn("failed to flush traces", "error", err)
	}

	appLog.Info("server exited")
}
