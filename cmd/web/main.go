package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vvstudiocode/korea-sub000/internal/catalog"
	"github.com/vvstudiocode/korea-sub000/internal/handlers"
	"github.com/vvstudiocode/korea-sub000/internal/persist"
	"github.com/vvstudiocode/korea-sub000/internal/platform/config"
	"github.com/vvstudiocode/korea-sub000/internal/platform/observability"
	"github.com/vvstudiocode/korea-sub000/internal/render"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration invalid", zap.Error(err))
	}

	store, err := persist.NewStore(cfg.Store.BaseURL,
		persist.WithFallbackURL(cfg.Store.FallbackURL),
		persist.WithCacheDir(cfg.Store.CacheDir),
		persist.WithLogger(logger))
	if err != nil {
		logger.Fatal("layout store init failed", zap.Error(err))
	}

	var provider catalog.Provider
	if cfg.Catalog.BaseURL != "" {
		provider = catalog.NewClient(cfg.Catalog.BaseURL,
			catalog.WithStoreID(cfg.Store.StoreID),
			catalog.WithCacheTTL(cfg.Catalog.CacheTTL))
	} else {
		logger.Warn("no catalog endpoint configured, serving demo products")
		provider = catalog.NewFake()
	}

	renderer := render.New(provider, render.WithTrustedContent(cfg.Builder.TrustedContent))
	web := handlers.NewWeb(store, renderer, cfg.Store.StoreID, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      web.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown incomplete", zap.Error(err))
	}
	logger.Info("storefront stopped")
}
