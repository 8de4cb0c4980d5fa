package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpvillanueva/oos-backend/api/controllers"
	"github.com/jpvillanueva/oos-backend/api/middleware"
	"github.com/jpvillanueva/oos-backend/internal/cart"
	"github.com/jpvillanueva/oos-backend/internal/delivery"
	"github.com/jpvillanueva/oos-backend/internal/identity"
	"github.com/jpvillanueva/oos-backend/internal/payment"
	"github.com/jpvillanueva/oos-backend/pkg/config"
	"github.com/jpvillanueva/oos-backend/pkg/enums"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
	"github.com/jpvillanueva/oos-backend/pkg/metrics"
	"github.com/jpvillanueva/oos-backend/pkg/redis"
)

// NewOrderingRouter wires the cart/order engine's HTTP surface.
func NewOrderingRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	oracle identity.Resolver,
	cartService cart.Service,
	deliveryService delivery.Service,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisClient,
		}))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	anyRole := middleware.RequireRoles(logg, enums.RoleUser, enums.RoleAdmin, enums.RoleStaff)
	staffOnly := middleware.RequireRoles(logg, enums.RoleAdmin, enums.RoleStaff)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Auth(oracle, logg),
			middleware.Idempotency(redisClient, logg),
		)

		r.With(anyRole).Post("/cart", controllers.CartAdd(cartService, logg))
		r.With(anyRole).Post("/cart/finalize", controllers.CartFinalize(cartService, logg))
		r.With(anyRole).Get("/cart/{username}", controllers.CartGet(cartService, logg))
		r.With(anyRole).Put("/cart/quantity/{orderItemID}", controllers.CartUpdateQuantity(cartService, logg))
		r.With(anyRole).Delete("/cart/{orderItemID}", controllers.CartRemove(cartService, logg))

		r.With(anyRole).Post("/deliveryinfo", controllers.DeliveryInfoCreate(deliveryService, logg))
		r.With(anyRole).Get("/delivery/info/{orderID}", controllers.DeliveryInfoFetch(deliveryService, logg))

		r.Route("/cart/admin/orders", func(r chi.Router) {
			r.With(staffOnly).Get("/manage", controllers.AdminManageOrders(cartService, logg))
			r.With(staffOnly).Get("/pending", controllers.AdminPendingOrders(cartService, logg))
			r.With(staffOnly).Get("/counts", controllers.AdminOrderCounts(cartService, logg))
			r.With(anyRole).Get("/history/{username}", controllers.AdminUserHistory(cartService, logg))
		})
	})

	return r
}

// NewPaymentRouter wires the payment orchestrator's HTTP surface. It has no
// datastore of its own; readiness covers redis and nothing else.
func NewPaymentRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	oracle identity.Resolver,
	paymentService payment.Service,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"redis": redisClient,
		}))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	anyRole := middleware.RequireRoles(logg, enums.RoleUser, enums.RoleAdmin, enums.RoleStaff)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Auth(oracle, logg),
			middleware.Idempotency(redisClient, logg),
		)
		r.With(anyRole).Post("/payment/confirm-payment", controllers.PaymentConfirm(paymentService, logg))
		r.With(anyRole).Post("/payment/create-checkout", controllers.CheckoutCreate(paymentService, logg))
	})

	return r
}
