package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpvillanueva/oos-backend/api/routes"
	"github.com/jpvillanueva/oos-backend/internal/identity"
	"github.com/jpvillanueva/oos-backend/internal/payment"
	"github.com/jpvillanueva/oos-backend/pkg/config"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
	"github.com/jpvillanueva/oos-backend/pkg/metrics"
	"github.com/jpvillanueva/oos-backend/pkg/redis"
	"github.com/jpvillanueva/oos-backend/pkg/square"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "payment-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "payment-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	oracle, err := identity.NewClient(cfg.Identity)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity client", err)
		os.Exit(1)
	}

	orderingClient, err := payment.NewHTTPClient(cfg.Ordering, cfg.Saga)
	if err != nil {
		logg.Error(context.Background(), "failed to create ordering client", err)
		os.Exit(1)
	}

	var checkoutProvider payment.CheckoutProvider
	if cfg.Square.Enabled() {
		squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create square client", err)
			os.Exit(1)
		}
		checkoutProvider, err = payment.NewSquareCheckout(squareClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create checkout provider", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "square not configured, create-checkout disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	sagaMetrics := metrics.NewSagaMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	paymentService, err := payment.NewService(orderingClient, checkoutProvider, sagaMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting payment api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewPaymentRouter(
			cfg, logg, redisClient, oracle,
			paymentService, httpMetrics, metricsHandler,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "payment api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
