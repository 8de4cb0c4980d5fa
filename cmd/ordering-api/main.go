package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/jpvillanueva/oos-backend/api/routes"
	"github.com/jpvillanueva/oos-backend/internal/cart"
	"github.com/jpvillanueva/oos-backend/internal/delivery"
	"github.com/jpvillanueva/oos-backend/internal/identity"
	"github.com/jpvillanueva/oos-backend/pkg/config"
	"github.com/jpvillanueva/oos-backend/pkg/db"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
	"github.com/jpvillanueva/oos-backend/pkg/metrics"
	"github.com/jpvillanueva/oos-backend/pkg/migrate"
	"github.com/jpvillanueva/oos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "ordering-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "ordering-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

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
		if err := closeAll(dbClient, redisClient); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	oracle, err := identity.NewClient(cfg.Identity)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity client", err)
		os.Exit(1)
	}

	deliveryRepo := delivery.NewRepository(dbClient.DB())
	deliveryService, err := delivery.NewService(deliveryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(dbClient.DB(), cfg.Ordering.TrackPaymentStatus)
	cartService, err := cart.NewService(cartRepo, dbClient, deliveryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"track_payment": cfg.Ordering.TrackPaymentStatus,
	})
	logg.Info(ctx, "starting ordering api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewOrderingRouter(
			cfg, logg, dbClient, redisClient, oracle,
			cartService, deliveryService, httpMetrics, metricsHandler,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "ordering api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func closeAll(closers ...io.Closer) error {
	var err error
	for _, c := range closers {
		if c == nil {
			continue
		}
		err = multierr.Append(err, c.Close())
	}
	return err
}
