package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Keerthithev/eduexpo/internal/core/port"
	"github.com/Keerthithev/eduexpo/internal/infra/config"
	"github.com/Keerthithev/eduexpo/internal/infra/database"
	kafkainfra "github.com/Keerthithev/eduexpo/internal/infra/kafka"
	"github.com/Keerthithev/eduexpo/internal/infra/logger"
	"github.com/Keerthithev/eduexpo/internal/infra/mail"
	redisinfra "github.com/Keerthithev/eduexpo/internal/infra/redis"
	"github.com/Keerthithev/eduexpo/internal/infra/security"
	postgresrepo "github.com/Keerthithev/eduexpo/internal/repository/postgres"
	redisrepo "github.com/Keerthithev/eduexpo/internal/repository/redis"
	"github.com/Keerthithev/eduexpo/internal/transport/http/middleware"
	"github.com/Keerthithev/eduexpo/internal/transport/http/routes"
	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// Application owns the process-wide resources and the HTTP server lifecycle.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	kafka  *kafkainfra.Producer
}

// New assembles the application: storage, messaging, services, and routes.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, cfg.Postgres, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokens, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	var mailer port.OTPMailer
	if cfg.App.Env == "production" || cfg.SMTP.Username != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP, log)
	} else {
		log.Info("smtp credentials not configured, logging codes instead of sending mail")
		mailer = mail.NewLogMailer(log)
	}

	var events port.EventPublisher
	var producer *kafkainfra.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			events = kafkainfra.NewStubPublisher(log)
			producer = nil
		} else {
			events = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		events = kafkainfra.NewStubPublisher(log)
	}

	accounts := postgresrepo.NewAccountRepository(pool)
	goals := postgresrepo.NewGoalRepository(pool)
	topics := postgresrepo.NewTopicRepository(pool)
	otpStore := redisrepo.NewOTPStore(redisClient.Client(), cfg.Redis.OTPPrefix)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitStore(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "eduexpo:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	authService := usecase.NewAuthService(accounts, tokens, log)
	registrationService := usecase.NewRegistrationService(accounts, goals, otpStore, mailer, tokens, events, log, cfg.OTP.TTL)
	passwordResetService := usecase.NewPasswordResetService(accounts, otpStore, mailer, events, log,
		cfg.OTP.TTL, cfg.OTP.ResendCooldown, cfg.OTP.ResetLinkTTL, cfg.Frontend.BaseURL)
	goalService := usecase.NewGoalService(goals, topics, log)
	topicService := usecase.NewTopicService(topics, goals, log)
	accountService := usecase.NewAccountService(accounts, goals, topics, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:          authService,
			Registration:  registrationService,
			PasswordReset: passwordResetService,
			Goals:         goalService,
			Topics:        topicService,
			Accounts:      accountService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		kafka:  producer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.kafka != nil {
			_ = a.kafka.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting eduexpo API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
