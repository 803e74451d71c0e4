package main

import (
	"context"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("migrate")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: 2})
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, log); err != nil {
		log.Fatal("apply migrations", zap.Error(err))
	}

	log.Info("migrations applied")
}
