package main

import (
	"GoldShop/config"
	"GoldShop/lock"
	"GoldShop/routers"
	"context"
	"errors"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer logger.Sync()

	db, err := config.SetupDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	rdb, err := config.SetupRedisConnection(cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	deps, err := routers.NewDependencies(cfg, db, rdb, lock.NewRedisLocker(rdb), logger)
	if err != nil {
		logger.Fatal("failed to build dependencies", zap.Error(err))
	}

	if cfg.Checkout.ReconcileOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		n, err := deps.Orders.Reconcile(ctx)
		cancel()
		if err != nil {
			logger.Error("startup reconcile incomplete", zap.Int("reconciled", n), zap.Error(err))
		} else if n > 0 {
			logger.Info("startup reconcile finished", zap.Int("reconciled", n))
		}
	}

	router, err := routers.SetupRouters(deps)
	if err != nil {
		logger.Fatal("failed to set up routes", zap.Error(err))
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
