package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	cartrepo "storefront/internal/repository/cart"
	categoryrepo "storefront/internal/repository/category"
	favoriterepo "storefront/internal/repository/favorite"
	productrepo "storefront/internal/repository/product"
	userrepo "storefront/internal/repository/user"
	variantrepo "storefront/internal/repository/variant"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	favoritesvc "storefront/internal/service/favorite"
	productsvc "storefront/internal/service/product"
	stocksvc "storefront/internal/service/stock"
	usersvc "storefront/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).Named("api")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.Options{
		MaxConns:         cfg.DBMaxConns,
		StatementTimeout: cfg.DBStatementTimeout,
	})
	if err != nil {
		log.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	repoLog := log.Named("repo")
	productRepo := productrepo.NewPostgres(dbpool, repoLog)
	variantRepo := variantrepo.NewPostgres(dbpool, repoLog)
	cartService := cartsvc.New(cartrepo.NewPostgres(dbpool, repoLog))
	stockService := stocksvc.New(variantRepo)
	productService := productsvc.New(productRepo, variantRepo)
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool))
	userService := usersvc.New(userrepo.NewPostgres(dbpool, repoLog))
	favoriteService := favoritesvc.New(favoriterepo.NewPostgres(dbpool, repoLog))

	opts := httpserver.Options{CORSAllowOrigins: cfg.CORSAllowOrigins}
	if cfg.MetricsEnabled {
		opts.Metrics = metrics.New()
		opts.Metrics.RegisterPool(dbpool)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, log, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		StockSvc:    stockService,
		ProductSvc:  productService,
		CategorySvc: categoryService,
		UserSvc:     userService,
		FavoriteSvc: favoriteService,
	}, opts)
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("server stopped")
	}
}
