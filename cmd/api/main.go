package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/crumbhouse/bakery-backend/api/routes"
	"github.com/crumbhouse/bakery-backend/internal/complaints"
	"github.com/crumbhouse/bakery-backend/internal/customers"
	"github.com/crumbhouse/bakery-backend/internal/customorders"
	"github.com/crumbhouse/bakery-backend/internal/events"
	"github.com/crumbhouse/bakery-backend/internal/orders"
	product "github.com/crumbhouse/bakery-backend/internal/products"
	"github.com/crumbhouse/bakery-backend/internal/reviews"
	"github.com/crumbhouse/bakery-backend/internal/sequence"
	"github.com/crumbhouse/bakery-backend/pkg/config"
	"github.com/crumbhouse/bakery-backend/pkg/db"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
	"github.com/crumbhouse/bakery-backend/pkg/metrics"
	"github.com/crumbhouse/bakery-backend/pkg/migrate"
	"github.com/crumbhouse/bakery-backend/pkg/pubsub"
	"github.com/crumbhouse/bakery-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	closers = append(closers, dbClient.Close)

	requireResource(ctx, logg, "migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		closers = append(closers, redisClient.Close)
	} else {
		logg.Warn(ctx, "redis not configured: idempotency replay and product cache disabled")
	}

	publisher := events.Noop()
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		requireResource(ctx, logg, "pubsub", err)
		closers = append(closers, psClient.Close)
		publisher = events.NewPubSubPublisher(psClient)
	}
	emitter := events.NewEmitter(publisher, logg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var counter sequence.Counter = sequence.NewDBCounter(dbClient.DB())
	if strings.EqualFold(cfg.Sequence.Backend, config.SequencerRedis) {
		if redisClient == nil {
			requireResource(ctx, logg, "redis id sequencer", errors.New(config.EnvSequencer+"=redis requires "+config.EnvRedisURL))
		}
		counter = sequence.NewRedisCounter(redisClient, dbClient.DB())
	}
	ids := sequence.NewAllocator(counter, logg, metrics.NewSequenceMetrics(reg))

	services := buildServices(ctx, cfg, logg, dbClient, redisClient, ids, emitter)

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Infra{
			DB:       dbClient,
			Redis:    redisClient,
			Metrics:  metrics.NewHTTPMetrics(reg),
			Gatherer: reg,
		}, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"db_driver": cfg.DB.Driver,
		"sequencer": cfg.Sequence.Backend,
	})
	logg.Info(serverCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	for i := len(closers) - 1; i >= 0; i-- {
		shutdownErr = multierr.Append(shutdownErr, closers[i]())
	}
	if shutdownErr != nil {
		logg.Error(serverCtx, "shutdown completed with errors", shutdownErr)
		os.Exit(1)
	}
	logg.Info(serverCtx, "api server stopped")
}

func buildServices(
	ctx context.Context,
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	ids *sequence.Allocator,
	emitter *events.Emitter,
) routes.Services {
	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), ids, emitter)
	requireResource(ctx, logg, "orders service", err)

	customRepo := customorders.NewRepository(dbClient.DB())
	customSvc, err := customorders.NewService(customRepo, ids, emitter)
	requireResource(ctx, logg, "custom orders service", err)

	dashSvc, err := customorders.NewDashService(customorders.NewDashRepository(dbClient.DB()), customRepo, dbClient, emitter, logg)
	requireResource(ctx, logg, "custom orders dashboard service", err)

	reviewSvc, err := reviews.NewService(reviews.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "reviews service", err)

	complaintSvc, err := complaints.NewService(complaints.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "complaints service", err)

	customerSvc, err := customers.NewService(customers.NewRepository(dbClient.DB()), dbClient, ids)
	requireResource(ctx, logg, "customers service", err)

	productSvc, err := product.NewService(product.NewRepository(dbClient.DB()), ids)
	requireResource(ctx, logg, "products service", err)
	if redisClient != nil {
		productSvc, err = product.NewCachedService(productSvc, redisClient, cfg.Catalog.CacheTTL, logg)
		requireResource(ctx, logg, "product cache", err)
	}

	return routes.Services{
		Orders:       ordersSvc,
		CustomOrders: customSvc,
		Dash:         dashSvc,
		Reviews:      reviewSvc,
		Complaints:   complaintSvc,
		Customers:    customerSvc,
		Products:     productSvc,
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
