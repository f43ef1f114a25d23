package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arogya/reminder-api/internal/config"
	"github.com/arogya/reminder-api/internal/handler"
	notificationHandler "github.com/arogya/reminder-api/internal/handler/notification"
	reminderHandler "github.com/arogya/reminder-api/internal/handler/reminder"
	scheduleHandler "github.com/arogya/reminder-api/internal/handler/schedule"
	"github.com/arogya/reminder-api/internal/middleware"
	"github.com/arogya/reminder-api/internal/repository"
	"github.com/arogya/reminder-api/internal/repository/memory"
	"github.com/arogya/reminder-api/internal/repository/postgres"
	"github.com/arogya/reminder-api/internal/router"
	reminderService "github.com/arogya/reminder-api/internal/service/reminder"
	scheduleService "github.com/arogya/reminder-api/internal/service/schedule"
	"github.com/arogya/reminder-api/pkg/logger"
	"github.com/arogya/reminder-api/pkg/messaging/redis"
	"github.com/arogya/reminder-api/pkg/metrics"
	"github.com/arogya/reminder-api/pkg/worker"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(nil)

	reminderRepo, logRepo, settingsRepo, outboxRepo, cleanup, err := buildRepositories(cfg, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer cleanup()

	appMetrics := metrics.New(cfg.Monitoring.MetricsPrefix, "api")

	reminderSvc := reminderService.NewService(reminderRepo, logRepo, settingsRepo, outboxRepo, appLogger).
		WithMetrics(appMetrics)
	scheduleSvc := scheduleService.NewService(reminderRepo, logRepo, cfg.Cache.TTL)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authMiddleware,
		reminderHandler.NewHandler(reminderSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		notificationHandler.NewHandler(reminderSvc),
		handler.NewHealthHandler(version),
		router.Config{
			RateLimitRPS:   rateLimitRPS(cfg),
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  cfg.Monitoring.MetricsPrefix,
		},
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// With the memory backend the outbox lives in this process, so the
	// drainer has to run here too.
	if cfg.Storage.Backend == "memory" && cfg.Redis.URL != "" {
		broker, err := redis.NewBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(
			outboxRepo,
			broker,
			worker.OutboxProcessorConfig{
				BatchSize:     cfg.Outbox.BatchSize,
				PollInterval:  cfg.Outbox.PollInterval,
				RetryAttempts: cfg.Outbox.RetryAttempts,
				RetryDelay:    cfg.Outbox.RetryDelay,
			},
			appLogger,
			appMetrics,
		)
		go processor.Start(ctx)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func buildRepositories(cfg *config.Config, appLogger *logger.Logger) (
	repository.ReminderRepository,
	repository.LogRepository,
	repository.SettingsRepository,
	repository.OutboxRepository,
	func(),
	error,
) {
	if cfg.Storage.Backend == "memory" {
		store := memory.NewStore(cfg.Storage.SnapshotDir, appLogger)
		return memory.NewReminderRepository(store),
			memory.NewLogRepository(store),
			memory.NewSettingsRepository(store),
			memory.NewOutboxRepository(store),
			func() {},
			nil
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	return postgres.NewReminderRepository(db),
		postgres.NewLogRepository(db),
		postgres.NewSettingsRepository(db),
		postgres.NewOutboxRepository(db),
		func() { db.Close() },
		nil
}

func rateLimitRPS(cfg *config.Config) float64 {
	if !cfg.RateLimit.Enabled {
		return 0
	}
	return cfg.RateLimit.RequestsPerSecond
}
