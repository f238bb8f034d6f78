package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/cron"
	"github.com/angelmondragon/storefront-backend/internal/discount"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/internal/sessions"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(reg)

	var closers []func() error
	defer func() {
		var closeErr error
		for i := len(closers) - 1; i >= 0; i-- {
			closeErr = multierr.Append(closeErr, closers[i]())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error releasing resources", closeErr)
		}
	}()

	deps := routes.Dependencies{
		Metrics:  storefrontMetrics,
		Gatherer: reg,
	}
	sourceParams := product.SourceParams{Config: cfg.Catalog, Logger: logg}

	if cfg.Catalog.UsesDB() {
		dbClient, err := db.Open(ctx, cfg, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}
		deps.DB = dbClient
		sourceParams.DB = dbClient.DB()
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		deps.Redis = redisClient
		deps.RateLimiter = redisClient
		sourceParams.Cache = redisClient
	}

	source, err := product.NewSource(sourceParams)
	if err != nil {
		logg.Error(ctx, "failed to build product source", err)
		os.Exit(1)
	}

	products := catalog.New(logg).WithRecorder(storefrontMetrics)
	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.LoadTimeout)
		defer cancel()
		// Load logs its own failure; the service keeps serving an empty catalog.
		_ = products.Load(loadCtx, source)
	}()

	rules, err := discount.FromConfig(cfg.Cart.DiscountCodes)
	if err != nil {
		logg.Error(ctx, "invalid discount configuration", err)
		os.Exit(1)
	}

	sessionRegistry := sessions.NewRegistry(sessions.Params{
		Rules:       rules,
		Defaults:    routes.CatalogDefaults(cfg.Catalog),
		MaxSessions: cfg.Session.Max,
	})

	cartService, err := cart.NewService(cart.ServiceParams{
		Products: products,
		Notifier: cart.Notifiers{
			cart.LogNotifier{Logger: logg},
			cart.MetricsNotifier{Recorder: storefrontMetrics},
		},
		Recorder: storefrontMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	deps.Catalog = products
	deps.Sessions = sessionRegistry
	deps.Cart = cartService

	if cfg.Cron.Enabled {
		cronService, err := newCronService(cfg, logg, reg, redisClient, sessionRegistry, products, source, storefrontMetrics)
		if err != nil {
			logg.Error(ctx, "failed to create cron service", err)
			os.Exit(1)
		}
		go func() {
			if err := cronService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "cron service stopped unexpectedly", err)
			}
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":           addr,
		"catalog_source": cfg.Catalog.Source,
		"redis":          redisClient != nil,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "api server shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "api server shutdown failed", err)
		}
	}
}

func newCronService(
	cfg *config.Config,
	logg *logger.Logger,
	reg prometheus.Registerer,
	redisClient *redis.Client,
	sessionRegistry *sessions.Registry,
	products *catalog.Catalog,
	source catalog.Source,
	storefrontMetrics *metrics.StorefrontMetrics,
) (*cron.Service, error) {
	var lock cron.Lock = cron.NewLocalLock()
	var cleanup []cron.SessionCleanup
	if redisClient != nil {
		redisLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cfg.Cron.LockKey), cfg.Cron.LockTTL)
		if err != nil {
			return nil, err
		}
		lock = redisLock
		cleanup = append(cleanup, func(ctx context.Context, sessionID string) error {
			return redisClient.Del(ctx, redisClient.RateLimitKey(sessions.RateLimitScope(routes.DiscountPolicyName, sessionID)))
		})
	}

	expiry, err := cron.NewSessionExpiryJob(cron.SessionExpiryJobParams{
		Logger:   logg,
		Sessions: sessionRegistry,
		IdleTTL:  cfg.Session.IdleTTL,
		Cleanup:  cleanup,
		Gauge:    storefrontMetrics,
	})
	if err != nil {
		return nil, err
	}
	refresh, err := cron.NewCatalogRefreshJob(cron.CatalogRefreshJobParams{
		Logger:  logg,
		Catalog: products,
		Source:  source,
	})
	if err != nil {
		return nil, err
	}

	return cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   cron.NewRegistry(expiry, refresh),
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(reg),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
}
