package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/tokenauth/config"
	"github.com/Payphone-Digital/tokenauth/internal/handler"
	"github.com/Payphone-Digital/tokenauth/internal/middleware"
	"github.com/Payphone-Digital/tokenauth/internal/repository"
	"github.com/Payphone-Digital/tokenauth/internal/router"
	"github.com/Payphone-Digital/tokenauth/internal/service"
	"github.com/Payphone-Digital/tokenauth/pkg/circuit"
	"github.com/Payphone-Digital/tokenauth/pkg/database"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/Payphone-Digital/tokenauth/pkg/metrics"
	"github.com/Payphone-Digital/tokenauth/pkg/ratelimit"
	"github.com/Payphone-Digital/tokenauth/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if !config.App.Debug || config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.Duration("token_ttl", config.Token.TTL),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	// Run auto migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	m := metrics.New()
	window := time.Duration(config.RateLimit.Duration) * time.Second

	var (
		limiter ratelimit.Limiter
		pinger  handler.Pinger
	)
	if config.Redis.Enabled {
		redisClient, err := redis.NewClient(config)
		if err != nil {
			logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		limiter = ratelimit.NewFallbackLimiter(
			ratelimit.NewRedisLimiter(redisClient, config.RateLimit.Request, window),
			ratelimit.NewMemoryLimiter(config.RateLimit.Request, window),
			circuit.NewBreaker("redis-ratelimit", circuit.DefaultConfig(), logger.GetLogger()),
		)
		pinger = redisClient
	} else {
		limiter = ratelimit.NewMemoryLimiter(config.RateLimit.Request, window)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Services
	tokenService := service.NewTokenService(tokenRepo, config.Token.TTL, m)
	userService := service.NewUserService(userRepo, tokenService, config.Auth.BcryptCost)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, tokenService)
	healthHandler := handler.NewHealthHandler(db, pinger)

	tokenMiddleware := middleware.NewTokenAuthMiddleware(tokenService, m)

	r := router.NewRouter(
		authHandler,
		healthHandler,

		tokenMiddleware,
		limiter,
		m,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.Bool("redis_enabled", config.Redis.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
