package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wishlisted-app/wishlisted-backend/api/routes"
	"github.com/wishlisted-app/wishlisted-backend/internal/catalog"
	"github.com/wishlisted-app/wishlisted-backend/internal/users"
	"github.com/wishlisted-app/wishlisted-backend/internal/wishlist"
	"github.com/wishlisted-app/wishlisted-backend/pkg/config"
	"github.com/wishlisted-app/wishlisted-backend/pkg/db"
	"github.com/wishlisted-app/wishlisted-backend/pkg/logger"
	"github.com/wishlisted-app/wishlisted-backend/pkg/metrics"
	"github.com/wishlisted-app/wishlisted-backend/pkg/migrate"
	"github.com/wishlisted-app/wishlisted-backend/pkg/proxy"
	"github.com/wishlisted-app/wishlisted-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	verifier, err := proxy.NewVerifier(cfg.Proxy.Secret, proxy.SignatureMode(cfg.Proxy.SignatureMode))
	if err != nil {
		logg.Error(context.Background(), "failed to create proxy verifier", err)
		os.Exit(1)
	}

	storefrontClient, err := catalog.NewClient(cfg.Storefront)
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	hydrator := catalog.NewHydrator(catalog.HydratorParams{
		Client:   storefrontClient,
		Cache:    redisClient,
		CacheTTL: cfg.Storefront.CacheTTL,
		Logger:   logg,
		Metrics:  metrics.NewCatalogMetrics(registry),
	})

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Users:    users.NewRepository(dbClient.DB()),
		Lists:    wishlist.NewRepository(dbClient.DB()),
		Hydrator: hydrator,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
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
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:           cfg,
			Logger:           logg,
			DBPinger:         dbClient,
			RedisPinger:      redisClient,
			Verifier:         verifier,
			WishlistService:  wishlistService,
			StorefrontClient: storefrontClient,
			HTTPMetrics:      metrics.NewHTTPMetrics(registry),
			MetricsGatherer:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
