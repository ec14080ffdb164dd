package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/postlane/postlane-backend/internal/authz"
	"github.com/postlane/postlane-backend/internal/content"
	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/internal/scheduler"
	"github.com/postlane/postlane-backend/internal/teams"
	"github.com/postlane/postlane-backend/pkg/config"
	"github.com/postlane/postlane-backend/pkg/db"
	"github.com/postlane/postlane-backend/pkg/logger"
	"github.com/postlane/postlane-backend/pkg/metrics"
	"github.com/postlane/postlane-backend/pkg/migrate"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/redis"
)

const lockKeyFormat = "pl:scheduler-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "scheduler-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "scheduler-worker"

	logg = logger.New(logger.Options{
		ServiceName: "scheduler-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	events := outbox.NewService(outbox.NewRepository(gormDB), logg)

	quotaService, err := quota.NewService(quota.ServiceParams{
		Repo:              quota.NewRepository(gormDB),
		Events:            events,
		TransactionRunner: dbClient,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create quota service", err)
		os.Exit(1)
	}

	boundary, err := authz.NewBoundary(authz.BoundaryParams{
		Members: teams.NewRepository(gormDB),
		Quota:   quotaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create authorization boundary", err)
		os.Exit(1)
	}

	contentRepo := content.NewRepository(gormDB)
	contentService, err := content.NewService(content.ServiceParams{
		Repo:              contentRepo,
		Boundary:          boundary,
		Events:            events,
		TransactionRunner: dbClient,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	lock, err := scheduler.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create sweep lock", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	sweeper, err := scheduler.NewSweeper(scheduler.SweeperParams{
		Logger:    logg,
		Due:       contentRepo,
		Publisher: contentService,
		Lock:      lock,
		Metrics:   jobMetrics,
		Interval:  cfg.Scheduler.PollInterval,
		BatchSize: cfg.Scheduler.BatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	metricsServer := &http.Server{
		Addr:    ":" + cfg.Scheduler.MetricsPort,
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()
	defer func() {
		if err := metricsServer.Shutdown(context.Background()); err != nil {
			logg.Error(ctx, "error shutting down metrics server", err)
		}
	}()

	logg.Info(ctx, "starting scheduler worker")

	if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "scheduler worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "scheduler worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
