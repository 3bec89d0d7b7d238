package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"planedge/backend/internal/config"
	"planedge/backend/internal/database"
	"planedge/backend/internal/logger"
	"planedge/backend/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogJSON, cfg.LogFile); err != nil {
		logger.Fatal("failed to open log file", "error", err, "file", cfg.LogFile)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Fatal("failed to migrate database", "error", err)
	}

	rdb := newRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           routes.SetupRouter(db, cfg, rdb),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "driver", cfg.DBDriver, "redis", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}

// newRedisClient はREDIS_ADDRが設定されていればRedisに接続します。
// 接続できない場合はnilを返し、Cookieとプロセス内のレート制限で動作します。
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to cookie flash store", "error", err, "addr", cfg.RedisAddr)
		client.Close()
		return nil
	}
	return client
}
