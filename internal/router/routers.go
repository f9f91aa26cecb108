package router

import (
	"github.com/Payphone-Digital/tokenauth/config"
	"github.com/Payphone-Digital/tokenauth/internal/handler"
	"github.com/Payphone-Digital/tokenauth/internal/middleware"
	"github.com/Payphone-Digital/tokenauth/pkg/metrics"
	"github.com/Payphone-Digital/tokenauth/pkg/ratelimit"
	"github.com/Payphone-Digital/tokenauth/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Router struct {
	authHandler   *handler.AuthHandler
	healthHandler *handler.HealthHandler

	tokenMw *middleware.TokenAuthMiddleware
	limiter ratelimit.Limiter
	metrics *metrics.Metrics
	Config  *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	health *handler.HealthHandler,

	tokenMw *middleware.TokenAuthMiddleware,
	limiter ratelimit.Limiter,
	m *metrics.Metrics,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		healthHandler: health,

		tokenMw: tokenMw,
		limiter: limiter,
		metrics: m,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseJSONFieldNames(v)
		if err := validation.RegisterRules(v); err != nil {
			panic("failed to register validation rules: " + err.Error())
		}
	}

	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.ContextMiddleware("http"))
	router.Use(middleware.RequestLogMiddleware())
	router.Use(middleware.MetricsMiddleware(r.metrics))
	router.Use(middleware.CORS())
	if r.Config.App.Timeout > 0 {
		router.Use(middleware.RequestTimeoutMiddleware(r.Config.App.Timeout))
	}

	router.GET("/up", r.healthHandler.Up)
	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.Use(middleware.RateLimit(r.limiter, r.metrics))

		api.GET("/health", r.healthHandler.HealthCheck)
		r.authRoutes(api)
	}

	return router
}
