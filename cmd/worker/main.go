package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/qs3c/api_access_gate/config"
	"github.com/qs3c/api_access_gate/internal/database"
	"github.com/qs3c/api_access_gate/internal/pkg/logger"
	"github.com/qs3c/api_access_gate/internal/pkg/queue"
	"github.com/qs3c/api_access_gate/internal/repository"
	"github.com/qs3c/api_access_gate/internal/service"
	"github.com/qs3c/api_access_gate/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log, os.Stdout, "access-gate-worker")

	// 初始化数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	appLogger.Info("database connected", "driver", cfg.Database.Driver)

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer rdb.Close()
	appLogger.Info("redis connected")

	events := queue.NewQueue(rdb, cfg.Gate.EventQueue)
	usageService := service.NewUsageService(repository.NewUsageRepository(db), appLogger)
	recorder := worker.NewRecorder(usageService, appLogger)

	// 创建 context 用于优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("worker started",
		"queue", events.Name(),
		"concurrency", cfg.Worker.Concurrency,
		"pop_timeout", cfg.Worker.PopTimeout.String())

	recorder.Run(ctx, events, cfg.Worker.Concurrency, cfg.Worker.PopTimeout)

	appLogger.Info("worker shutdown complete")
}
