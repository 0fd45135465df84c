// cmd/tools/seed-catalog/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"agency-notify/internal/common/config"
	"agency-notify/internal/common/database"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/seed"
	"agency-notify/internal/settings"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to notification catalog JSON (defaults to config)")
	schemaPath := flag.String("schema", "", "path to catalog JSON schema (defaults to config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if *catalogPath == "" {
		*catalogPath = cfg.Seed.CatalogPath
	}
	if *schemaPath == "" {
		*schemaPath = cfg.Seed.SchemaPath
	}

	catalog, err := seed.Load(*catalogPath, *schemaPath)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	seeder := seed.NewSeeder(pg.DB, log)
	if err := seeder.Apply(ctx, catalog); err != nil {
		zapLog.Fatal("seeding failed", zap.Error(err))
	}

	// Settings may have changed: clear the read-through cache so running
	// services pick up the new values.
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err == nil {
		provider := settings.NewCachedProvider(pg.DB, rdb.Client,
			time.Duration(cfg.Notifications.SettingsTTL)*time.Second, log)
		if err := provider.Invalidate(ctx); err != nil {
			zapLog.Warn("settings cache invalidation failed", zap.Error(err))
		}
		rdb.Close()
	}

	zapLog.Info("seed complete",
		zap.Int("types", len(catalog.Types)),
		zap.Int("settings", len(catalog.Settings)),
	)
}
