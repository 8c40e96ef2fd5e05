package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/api_access_gate/config"
	"github.com/qs3c/api_access_gate/internal/api"
	"github.com/qs3c/api_access_gate/internal/api/handler"
	"github.com/qs3c/api_access_gate/internal/database"
	"github.com/qs3c/api_access_gate/internal/pkg/logger"
	"github.com/qs3c/api_access_gate/internal/pkg/pubsub"
	"github.com/qs3c/api_access_gate/internal/pkg/queue"
	"github.com/qs3c/api_access_gate/internal/pkg/ws"
	"github.com/qs3c/api_access_gate/internal/repository"
	"github.com/qs3c/api_access_gate/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log, os.Stdout, "access-gate-server")

	// 初始化数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	appLogger.Info("database connected", "driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub(appLogger)

	// 初始化 Redis 与事件投递，未开启时判定结果不外发
	var rdb *redis.Client
	var emitter *service.DecisionEmitter
	if cfg.Gate.PublishEvents {
		rdb, err = database.NewRedis(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect redis: %v", err)
		}
		defer rdb.Close()
		appLogger.Info("redis connected")

		emitter = service.NewDecisionEmitter(
			queue.NewQueue(rdb, cfg.Gate.EventQueue),
			pubsub.NewPublisher(rdb, cfg.Gate.DecisionChannel),
			appLogger,
		)

		// 将判定推送转发给在线用户
		subscriber := pubsub.NewSubscriber(rdb, cfg.Gate.DecisionChannel)
		go func() {
			err := subscriber.Subscribe(ctx, func(msg *pubsub.DecisionMessage) {
				if err := wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg}); err != nil {
					appLogger.Warn("forward decision failed", "user_id", msg.UserID, "error", err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error("decision subscriber stopped", "error", err)
			}
		}()
	} else {
		emitter = service.NewDecisionEmitter(nil, nil, appLogger)
	}

	// 初始化 Repository
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	endpointRepo := repository.NewEndpointRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	// 初始化 Service
	planService := service.NewPlanService(db, planRepo, subRepo, appLogger)
	subscriptionService := service.NewSubscriptionService(db, planRepo, subRepo, appLogger)
	endpointService := service.NewEndpointService(endpointRepo, appLogger)
	usageService := service.NewUsageService(usageRepo, appLogger)
	gate := service.NewAccessGate(db, planRepo, subRepo, appLogger)

	// 初始化 Router
	router := api.NewRouter(
		handler.NewPlanHandler(planService, subscriptionService),
		handler.NewSubscriptionHandler(subscriptionService, usageService),
		handler.NewEndpointHandler(endpointService),
		handler.NewAccessHandler(gate, emitter),
		handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, appLogger),
		handler.NewHealthHandler(db, rdb),
		cfg,
		appLogger,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", "error", err)
	}
	appLogger.Info("server shutdown complete")
}
