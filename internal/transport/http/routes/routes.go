package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/infra/config"
	"github.com/Keerthithev/eduexpo/internal/transport/http/handlers"
	"github.com/Keerthithev/eduexpo/internal/transport/http/middleware"
	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	PasswordReset *usecase.PasswordResetService
	Goals         *usecase.GoalService
	Topics        *usecase.TopicService
	Accounts      *usecase.AccountService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{deps.Config.Frontend.BaseURL}))

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Namespace: "eduexpo"}); err == nil {
		r.Use(metrics.Handler())
	} else if deps.Logger != nil {
		deps.Logger.Warn("http metrics disabled", zap.Error(err))
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")

		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration)
		registerLimits := buildRateLimit(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts)
		if len(registerLimits) > 0 {
			registerGroup := authGroup.Group("")
			registerGroup.Use(registerLimits...)
			registrationHandler.RegisterRoutes(registerGroup)
		} else {
			registrationHandler.RegisterRoutes(authGroup)
		}

		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		loginHandlers := append(buildRateLimit(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts), authHandler.Login)
		authGroup.POST("/login", loginHandlers...)
		authGroup.GET("/me", authMiddleware, authHandler.Me)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset)
		otpLimits := buildRateLimit(deps, "auth_otp_ip", deps.Config.RateLimit.OTPMaxAttempts)
		if len(otpLimits) > 0 {
			otpGroup := authGroup.Group("")
			otpGroup.Use(otpLimits...)
			passwordHandler.RegisterRoutes(otpGroup)
		} else {
			passwordHandler.RegisterRoutes(authGroup)
		}

		goalGroup := api.Group("/goal")
		goalGroup.Use(authMiddleware)
		handlers.NewGoalHandler(deps.Services.Goals).RegisterRoutes(goalGroup)

		topicGroup := api.Group("/topic")
		topicGroup.Use(authMiddleware)
		handlers.NewTopicHandler(deps.Services.Topics).RegisterRoutes(topicGroup)

		userGroup := api.Group("/user")
		userGroup.Use(authMiddleware)
		handlers.NewAccountHandler(deps.Services.Accounts).RegisterRoutes(userGroup)
	}

	return r
}

func buildRateLimit(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
