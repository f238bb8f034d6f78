package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	file := flag.String("file", "", "products JSON file (defaults to STOREFRONT_CATALOG_PRODUCTS_FILE)")
	prune := flag.Bool("prune", false, "delete stored products that are missing from the file")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	path := *file
	if path == "" {
		path = cfg.Catalog.ProductsFile
	}
	ctx = logg.WithFields(ctx, map[string]any{"file": path})

	products, err := product.NewFileSource(path).Load(ctx)
	requireResource(ctx, logg, "product feed", err)

	dbClient, err := db.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	res, err := product.NewRepository(dbClient.DB()).Import(ctx, products, *prune)
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"upserted": res.Upserted,
		"pruned":   res.Pruned,
	}), "seed complete")

	if cfg.Redis.Enabled() {
		invalidateCache(ctx, cfg, logg)
	}
}

// invalidateCache drops the cached snapshot so API instances see the new rows on their next refresh.
func invalidateCache(ctx context.Context, cfg *config.Config, logg *logger.Logger) {
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "skipping catalog cache invalidation")
		return
	}
	defer func() {
		_ = redisClient.Close()
	}()

	if err := redisClient.Del(ctx, redisClient.CatalogKey(product.CacheName)); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "catalog cache invalidation failed")
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(logg.WithField(ctx, "resource", name), "failed to initialize", err)
		os.Exit(1)
	}
}
