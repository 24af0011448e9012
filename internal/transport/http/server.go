package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	appsvc "resource-board/internal/app"
	"resource-board/internal/bootstrap"
	"resource-board/internal/cache"
	"resource-board/internal/pkg/jwtutil"
	"resource-board/internal/platform/metrics"
	"resource-board/internal/transport/http/handler"
	"resource-board/internal/transport/http/middleware"
	"resource-board/internal/validation"
)

// EngineConfig is everything the router needs once services are built.
type EngineConfig struct {
	GinMode   string
	Logger    logrus.FieldLogger
	Metrics   *metrics.Metrics
	Tokens    middleware.TokenVerifier
	Auth      *handler.AuthHandler
	Resources *handler.ResourceHandler
	Health    *handler.HealthHandler
}

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	cfg := app.Config
	v := validation.New()
	tokens := jwtutil.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute)

	credentials, err := appsvc.NewCredentialStore(app.Storage.Users, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	authService := appsvc.NewAuthService(credentials, tokens, v)

	var listCache appsvc.ResourceListCache
	if app.Redis != nil {
		listCache = cache.NewResourceListCache(app.Redis, time.Duration(cfg.Redis.ResourceListTTLSeconds)*time.Second)
	}
	var publisher appsvc.ResourceEventPublisher
	if app.Publisher != nil {
		publisher = app.Publisher
	}
	resourceService := appsvc.NewResourceService(
		app.Storage.Resources,
		app.Storage.Users,
		v,
		listCache,
		publisher,
		app.Metrics,
		app.Logger,
	)

	checks := []handler.DependencyCheck{{Name: app.Storage.Driver, Check: app.Storage.Ping}}
	if app.Redis != nil {
		checks = append(checks, handler.DependencyCheck{
			Name:     "redis",
			Optional: true,
			Check: func(ctx context.Context) error {
				return app.Redis.Ping(ctx).Err()
			},
		})
	}
	if app.MQConn != nil {
		checks = append(checks, handler.DependencyCheck{
			Name:     "rabbitmq",
			Optional: true,
			Check: func(context.Context) error {
				if app.MQConn.IsClosed() {
					return errConnectionClosed
				}
				return nil
			},
		})
	}

	return NewEngine(EngineConfig{
		GinMode:   cfg.App.GinMode,
		Logger:    app.Logger,
		Metrics:   app.Metrics,
		Tokens:    tokens,
		Auth:      handler.NewAuthHandler(authService, app.Logger),
		Resources: handler.NewResourceHandler(resourceService, app.Logger),
		Health:    handler.NewHealthHandler(cfg.App.Name, cfg.App.Env, app.StartedAt, app.Logger, checks...),
	}), nil
}

func NewEngine(cfg EngineConfig) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	// Recovery sits innermost so logging and metrics see the 500 it writes.
	router.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.Health != nil {
		router.GET("/healthz", cfg.Health.Check)
	}

	auth := middleware.AuthJWT(cfg.Tokens)
	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", cfg.Auth.Register)
	authGroup.POST("/login", cfg.Auth.Login)
	authGroup.GET("/me", auth, cfg.Auth.Me)

	resources := api.Group("/resources")
	resources.GET("", cfg.Resources.List)
	resources.GET("/mine", auth, cfg.Resources.Mine)
	resources.GET("/user/my-resources", auth, cfg.Resources.Mine)
	resources.GET("/:id", cfg.Resources.Get)
	resources.POST("", auth, cfg.Resources.Create)
	resources.PUT("/:id", auth, cfg.Resources.Update)
	resources.DELETE("/:id", auth, cfg.Resources.Delete)

	return router
}
