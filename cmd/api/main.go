package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/storefront/internal/orders"
	"github.com/richxcame/storefront/internal/trust"
	"github.com/richxcame/storefront/pkg/common"
	"github.com/richxcame/storefront/pkg/config"
	"github.com/richxcame/storefront/pkg/database"
	"github.com/richxcame/storefront/pkg/health"
	"github.com/richxcame/storefront/pkg/logger"
	"github.com/richxcame/storefront/pkg/middleware"
	"github.com/richxcame/storefront/pkg/redis"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Init(cfg.Server.Environment)
	defer logger.Sync()

	if err := database.Migrate(&cfg.Database); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("connected to PostgreSQL")

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		// the suspicious-view cache is an optimization, not a dependency
		logger.Warn("redis unavailable, suspicious view cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info("connected to Redis")
	}

	trustRepo := trust.NewRepository(pool)
	var trustCache trust.Cache
	if redisClient != nil {
		trustCache = redisClient
	}
	trustService := trust.NewService(trustRepo, trustCache, cfg.Trust)
	trustHandler := trust.NewHandler(trustService)

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo, trustService)
	ordersHandler := orders.NewHandler(ordersService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		deps := map[string]func() error{
			"database": health.DatabaseChecker(pool),
		}
		if redisClient != nil {
			deps["redis"] = health.RedisChecker(redisClient)
		}
		common.HealthCheckWithDeps(serviceName, "1.0.0", deps)(c)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwtSecret := cfg.JWT.Secret

	api := router.Group("/api/v1")
	{
		// guest checkout works without a token
		api.POST("/orders", middleware.OptionalAuth(jwtSecret), ordersHandler.Place)
		api.GET("/orders", middleware.OptionalAuth(jwtSecret), ordersHandler.List)
		api.GET("/orders/:id", middleware.OptionalAuth(jwtSecret), ordersHandler.Get)
		api.POST("/orders/:id/cancel", middleware.OptionalAuth(jwtSecret), ordersHandler.Cancel)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireAdmin())
		{
			admin.POST("/orders/:id/fulfill", ordersHandler.MarkFulfilled)
			admin.GET("/trust/scores/:phone", trustHandler.GetScore)
			admin.GET("/trust/scores/:phone/history", trustHandler.GetHistory)
			admin.GET("/trust/suspicious", trustHandler.ListSuspicious)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("storefront API listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
