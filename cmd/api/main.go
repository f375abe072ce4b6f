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
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/filter"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, err := snapshot.NewSQLite(cfg.Snapshot.Path)
	if err != nil {
		logg.Error(ctx, "failed to open snapshot store", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, snapshots.DB()); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	catalogMetrics := metrics.NewCatalogMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	var catalogCache catalog.Cache
	var cachePinger snapshot.Pinger
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		catalogCache = redisClient
		cachePinger = redisClient
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Fetcher: catalog.NewClient(cfg.Catalog, catalogMetrics),
		Cache:   catalogCache,
		TTL:     cfg.Catalog.CacheTTL,
		Metrics: catalogMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	cartEngine, err := cart.NewEngine(ctx, cart.EngineParams{
		Store:   snapshots,
		Metrics: cartMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart engine", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Engine:    cartEngine,
		Submitter: checkoutsvc.SimulatedSubmitter{Latency: cfg.Checkout.SubmitLatency},
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	wishlistStore, err := wishlist.NewStore(ctx, wishlist.StoreParams{
		Snapshots: snapshots,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create wishlist store", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(ctx, auth.ServiceParams{
		Config: cfg.Auth,
		Store:  snapshots,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Snapshots: snapshots,
		Cache:     cachePinger,
		Registry:  registry,
		HTTP:      httpMetrics,
		Catalog:   catalogService,
		Filters:   filter.NewStore(),
		Cart:      cartEngine,
		Drawer:    &cart.Drawer{},
		Checkout:  checkoutService,
		Wishlist:  wishlistStore,
		Auth:      authService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, snapshots.Close())
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(startCtx, "error closing dependencies", closeErr)
		os.Exit(1)
	}
}
