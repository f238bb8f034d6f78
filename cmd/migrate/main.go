package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|redo|status|version|create|validate")
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	name := flag.String("name", "", "migration name (create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (version); empty prints the current one")
	flag.Parse()

	// create and validate only touch files, so they run without config or a database.
	switch *cmd {
	case "create":
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, *name, time.Now())
		exitOnErr(ctx, logg, "create migration", err)
		fmt.Println("created migration:", path)
		return
	case "validate":
		var err error
		if *dir == "" {
			err = migrate.ValidateDir(migrate.DefaultDir)
		} else {
			err = migrate.ValidateDir(*dir)
		}
		exitOnErr(ctx, logg, "validate migrations", err)
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	exitOnErr(ctx, logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	src := migrate.Embedded()
	if *dir != "" {
		src = migrate.Dir(*dir)
	}

	dbClient, err := db.Open(ctx, cfg, logg)
	exitOnErr(ctx, logg, "open database", err)
	defer func() { _ = dbClient.Close() }()

	sqlDB, err := dbClient.SQLDB()
	exitOnErr(ctx, logg, "open database", err)
	dialect := dbClient.Dialect()

	ctx = logg.WithFields(ctx, map[string]any{
		"cmd":     *cmd,
		"source":  src.String(),
		"dialect": dialect,
	})

	switch *cmd {
	case "up", "down", "redo", "status":
		err = migrate.Run(ctx, sqlDB, dialect, src, *cmd)
	case "version":
		if *version == "" {
			var current int64
			current, err = migrate.Version(ctx, sqlDB, dialect)
			if err == nil {
				fmt.Println("schema version:", current)
			}
			break
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, dialect, src, *version)
	default:
		err = fmt.Errorf("unknown -cmd value %q", *cmd)
	}
	exitOnErr(ctx, logg, "migrate "+*cmd, err)
	logg.Info(ctx, "migrate done")
}

func exitOnErr(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, step+" failed", err)
	os.Exit(1)
}
