package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/asifmahmud/parceltrack-backend/api/routes"
	"github.com/asifmahmud/parceltrack-backend/internal/notifications"
	"github.com/asifmahmud/parceltrack-backend/internal/parcels"
	"github.com/asifmahmud/parceltrack-backend/internal/payments"
	"github.com/asifmahmud/parceltrack-backend/internal/tracking"
	"github.com/asifmahmud/parceltrack-backend/pkg/config"
	"github.com/asifmahmud/parceltrack-backend/pkg/db"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
	"github.com/asifmahmud/parceltrack-backend/pkg/metrics"
	"github.com/asifmahmud/parceltrack-backend/pkg/migrate"
	"github.com/asifmahmud/parceltrack-backend/pkg/outbox"
	"github.com/asifmahmud/parceltrack-backend/pkg/redis"
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

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	parcelsRepo := parcels.NewRepository(dbClient.DB())
	trackingRepo := tracking.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())

	parcelsService, err := parcels.NewService(parcelsRepo, trackingRepo, paymentsRepo, dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create parcels service", err)
		os.Exit(1)
	}

	trackingService, err := tracking.NewService(trackingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			HTTPMetrics:   httpMetrics,
			MetricsGather: registry,
			DB:            dbClient,
			Redis:         redisClient,
			Parcels:       parcelsService,
			Tracking:      trackingService,
			Notifications: notificationsService,
			Payments:      paymentsRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
