package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crumbhouse/bakery-backend/api/controllers"
	complaintcontrollers "github.com/crumbhouse/bakery-backend/api/controllers/complaints"
	customercontrollers "github.com/crumbhouse/bakery-backend/api/controllers/customers"
	customordercontrollers "github.com/crumbhouse/bakery-backend/api/controllers/customorders"
	ordercontrollers "github.com/crumbhouse/bakery-backend/api/controllers/orders"
	productcontrollers "github.com/crumbhouse/bakery-backend/api/controllers/products"
	reviewcontrollers "github.com/crumbhouse/bakery-backend/api/controllers/reviews"
	"github.com/crumbhouse/bakery-backend/api/middleware"
	"github.com/crumbhouse/bakery-backend/internal/complaints"
	"github.com/crumbhouse/bakery-backend/internal/customers"
	"github.com/crumbhouse/bakery-backend/internal/customorders"
	"github.com/crumbhouse/bakery-backend/internal/orders"
	product "github.com/crumbhouse/bakery-backend/internal/products"
	"github.com/crumbhouse/bakery-backend/internal/reviews"
	"github.com/crumbhouse/bakery-backend/pkg/config"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
	"github.com/crumbhouse/bakery-backend/pkg/metrics"
	"github.com/crumbhouse/bakery-backend/pkg/redis"
)

// Services bundles the domain services mounted by the router.
type Services struct {
	Orders       orders.Service
	CustomOrders customorders.Service
	Dash         customorders.DashService
	Reviews      reviews.Service
	Complaints   complaints.Service
	Customers    customers.Service
	Products     product.Service
}

// Infra carries the process-level collaborators. Redis and Gatherer may be nil.
type Infra struct {
	DB       controllers.Pinger
	Redis    *redis.Client
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	if infra.Metrics != nil {
		r.Use(middleware.Metrics(infra.Metrics))
	}

	if !cfg.JWT.Enabled() {
		logg.Warn(context.Background(), "staff routes are unguarded: BAKERY_JWT_SECRET is empty")
	}

	// A nil *redis.Client must not reach the interfaces as a typed nil.
	var (
		cachePinger controllers.Pinger
		idemStore   redis.IdempotencyStore
	)
	if infra.Redis != nil {
		cachePinger = infra.Redis
		idemStore = infra.Redis
	}
	idempotent := middleware.Idempotency(idemStore, logg)
	staff := func(r chi.Router) {
		r.Use(middleware.StaffAuth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(cfg.JWT, logg, enums.StaffRoleAdmin, enums.StaffRoleStaff))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.DB, cachePinger))
	})
	if infra.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", reviewcontrollers.List(svc.Reviews, logg))
		r.Post("/", reviewcontrollers.Create(svc.Reviews, logg))
		r.Get("/{id}", reviewcontrollers.Detail(svc.Reviews, logg))
		r.Patch("/{id}", reviewcontrollers.Update(svc.Reviews, logg))
		r.Delete("/{id}", reviewcontrollers.Delete(svc.Reviews, logg))
		r.Patch("/{id}/status", reviewcontrollers.UpdateStatus(svc.Reviews, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.With(idempotent).Post("/", ordercontrollers.Checkout(svc.Orders, logg))
			r.Get("/{ref}", ordercontrollers.Detail(svc.Orders, logg))
		})

		r.Route("/custom-orders", func(r chi.Router) {
			r.With(idempotent).Post("/", customordercontrollers.Create(svc.CustomOrders, logg))
			r.Get("/{ref}", customordercontrollers.Detail(svc.CustomOrders, logg))
			r.Group(func(r chi.Router) {
				staff(r)
				r.Get("/", customordercontrollers.List(svc.CustomOrders, logg))
				r.Patch("/{ref}/status", customordercontrollers.UpdateStatus(svc.CustomOrders, logg))
				r.Delete("/{ref}", customordercontrollers.Delete(svc.CustomOrders, logg))
			})
		})

		r.Route("/custom-orders-dash", func(r chi.Router) {
			staff(r)
			r.Post("/", customordercontrollers.DashCreate(svc.Dash, logg))
			r.Get("/", customordercontrollers.DashList(svc.Dash, logg))
			r.Get("/stats", customordercontrollers.DashStats(svc.Dash, logg))
			r.Get("/{id}", customordercontrollers.DashDetail(svc.Dash, logg))
			r.Patch("/{id}", customordercontrollers.DashUpdate(svc.Dash, logg))
			r.Delete("/{id}", customordercontrollers.DashDelete(svc.Dash, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			staff(r)
			r.Get("/orders", ordercontrollers.List(svc.Orders, logg))
			r.Patch("/orders/{ref}/status", ordercontrollers.UpdateStatus(svc.Orders, logg))
			r.Patch("/orders/{ref}/cancel", ordercontrollers.Cancel(svc.Orders, logg))
			r.Delete("/orders/{ref}/cancel", ordercontrollers.Delete(svc.Orders, logg))
			r.Delete("/orders/{ref}", ordercontrollers.Delete(svc.Orders, logg))
			r.Get("/stats", ordercontrollers.Stats(svc.Orders, logg))
			r.Get("/search", ordercontrollers.Search(svc.Orders, logg))
		})

		r.Route("/complaints", func(r chi.Router) {
			r.Post("/", complaintcontrollers.Create(svc.Complaints, logg))
			r.Group(func(r chi.Router) {
				staff(r)
				r.Get("/", complaintcontrollers.List(svc.Complaints, logg))
				r.Get("/{id}", complaintcontrollers.Detail(svc.Complaints, logg))
				r.Patch("/{id}/status", complaintcontrollers.UpdateStatus(svc.Complaints, logg))
				r.Delete("/{id}", complaintcontrollers.Delete(svc.Complaints, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			staff(r)
			r.Get("/", customercontrollers.List(svc.Customers, logg))
			r.Post("/", customercontrollers.Create(svc.Customers, logg))
			r.Get("/{ref}", customercontrollers.Detail(svc.Customers, logg))
			r.Patch("/{ref}", customercontrollers.Update(svc.Customers, logg))
			r.Delete("/{ref}", customercontrollers.Delete(svc.Customers, logg))
			r.Post("/{ref}/addresses", customercontrollers.AddAddress(svc.Customers, logg))
			r.Patch("/{ref}/addresses/{addressId}/default", customercontrollers.SetDefaultAddress(svc.Customers, logg))
			r.Post("/{ref}/purchases", customercontrollers.RecordPurchase(svc.Customers, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productcontrollers.List(svc.Products, logg))
			r.Get("/{ref}", productcontrollers.Detail(svc.Products, logg))
			r.Post("/{ref}/quote", productcontrollers.Quote(svc.Products, logg))
			r.Post("/{ref}/rating", productcontrollers.Rate(svc.Products, logg))
			r.Group(func(r chi.Router) {
				staff(r)
				r.Post("/", productcontrollers.Create(svc.Products, logg))
				r.Patch("/{ref}", productcontrollers.Update(svc.Products, logg))
				r.Delete("/{ref}", productcontrollers.Delete(svc.Products, logg))
			})
		})
	})

	return r
}
