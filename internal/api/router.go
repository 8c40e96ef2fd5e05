package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/api_access_gate/config"
	"github.com/qs3c/api_access_gate/internal/api/handler"
	"github.com/qs3c/api_access_gate/internal/api/middleware"
	"github.com/qs3c/api_access_gate/internal/pkg/jwt"
)

type Router struct {
	planHandler         *handler.PlanHandler
	subscriptionHandler *handler.SubscriptionHandler
	endpointHandler     *handler.EndpointHandler
	accessHandler       *handler.AccessHandler
	websocketHandler    *handler.WebSocketHandler
	healthHandler       *handler.HealthHandler
	cfg                 *config.Config
	logger              *slog.Logger
}

func NewRouter(
	planHandler *handler.PlanHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	endpointHandler *handler.EndpointHandler,
	accessHandler *handler.AccessHandler,
	websocketHandler *handler.WebSocketHandler,
	healthHandler *handler.HealthHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *Router {
	return &Router{
		planHandler:         planHandler,
		subscriptionHandler: subscriptionHandler,
		endpointHandler:     endpointHandler,
		accessHandler:       accessHandler,
		websocketHandler:    websocketHandler,
		healthHandler:       healthHandler,
		cfg:                 cfg,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/healthz", r.healthHandler.Healthz)

	api := engine.Group("/api/v1")
	{
		// WebSocket，token 走查询参数
		api.GET("/ws", r.websocketHandler.Handle)

		// 网关判定
		access := api.Group("/access")
		access.Use(middleware.Auth(r.cfg.JWT.Secret, jwt.RoleGateway, jwt.RoleAdmin))
		{
			access.GET("/:user_id/*endpoint", r.accessHandler.Check)
		}

		// 管理接口
		admin := api.Group("")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret, jwt.RoleAdmin))
		{
			plans := admin.Group("/plans")
			{
				plans.POST("", r.planHandler.Create)
				plans.GET("", r.planHandler.List)
				plans.GET("/:id", r.planHandler.Get)
				plans.PUT("/:id", r.planHandler.Update)
				plans.DELETE("/:id", r.planHandler.Delete)
				plans.GET("/:id/subscriptions", r.planHandler.ListSubscriptions)
			}

			subscriptions := admin.Group("/subscriptions")
			{
				subscriptions.PUT("", r.subscriptionHandler.Assign)
				subscriptions.GET("/:user_id", r.subscriptionHandler.Get)
				subscriptions.DELETE("/:user_id", r.subscriptionHandler.Cancel)
				subscriptions.GET("/:user_id/usage", r.subscriptionHandler.Usage)
			}

			endpoints := admin.Group("/endpoints")
			{
				endpoints.POST("", r.endpointHandler.Create)
				endpoints.GET("", r.endpointHandler.List)
				endpoints.DELETE("/:id", r.endpointHandler.Delete)
			}
		}
	}

	return engine
}
