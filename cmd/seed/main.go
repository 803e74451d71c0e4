package main

import (
	"context"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("seed")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: 2})
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, log); err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}

	log.Info("seed applied", zap.String("demo_password", seed.DemoPassword))
}
