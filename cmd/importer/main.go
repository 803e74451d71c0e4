package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logger"
	"storefront/internal/repository/category"
	"storefront/internal/repository/product"
	"storefront/internal/repository/variant"
	categorysvc "storefront/internal/service/category"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV ("+strings.Join(importer.Columns, ",")+")")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("importer")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: 2, StatementTimeout: cfg.DBStatementTimeout})
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open file", zap.String("file", filePath), zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f,
		product.NewPostgres(pool, log),
		variant.NewPostgres(pool, log),
		categorysvc.New(category.NewPostgres(pool)),
		log,
	)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		log.Fatal("import failed", zap.Int("products", res.Products), zap.Error(err))
	}

	fmt.Printf("Imported %d products (%d variants) in %s\n", res.Products, res.Variants, time.Since(start).Truncate(time.Millisecond))
}
