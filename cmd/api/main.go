package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/postlane/postlane-backend/api/routes"
	"github.com/postlane/postlane-backend/internal/authz"
	"github.com/postlane/postlane-backend/internal/brands"
	"github.com/postlane/postlane-backend/internal/content"
	"github.com/postlane/postlane-backend/internal/notifications"
	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/internal/teams"
	"github.com/postlane/postlane-backend/pkg/auth/session"
	"github.com/postlane/postlane-backend/pkg/config"
	"github.com/postlane/postlane-backend/pkg/db"
	"github.com/postlane/postlane-backend/pkg/logger"
	"github.com/postlane/postlane-backend/pkg/migrate"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

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

	teamRepo := teams.NewRepository(gormDB)
	boundary, err := authz.NewBoundary(authz.BoundaryParams{
		Members: teamRepo,
		Quota:   quotaService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create authorization boundary", err)
		os.Exit(1)
	}

	teamService, err := teams.NewService(teams.ServiceParams{
		Repo:              teamRepo,
		Boundary:          boundary,
		Quota:             quotaService,
		Events:            events,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create team service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(content.ServiceParams{
		Repo:              content.NewRepository(gormDB),
		Boundary:          boundary,
		Events:            events,
		TransactionRunner: dbClient,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	brandService, err := brands.NewService(brands.ServiceParams{
		Repo:     brands.NewRepository(gormDB),
		Boundary: boundary,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create brand service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Sessions:      sessionManager,
			Teams:         teamService,
			Content:       contentService,
			Brands:        brandService,
			Quota:         quotaService,
			Notifications: notificationService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
