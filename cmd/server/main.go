package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/api/handler"
	"weld-oee/backend/internal/api/middleware"
	"weld-oee/backend/internal/api/router"
	"weld-oee/backend/internal/repository"
	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/database"
	"weld-oee/backend/pkg/jwt"
	applogger "weld-oee/backend/pkg/logger"
	"weld-oee/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("timezone", cfg.Tracking.Timezone),
	)

	// 3. database and schema
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	// 4. optional Redis: token blacklist, login rate limit and cross-instance worker locks
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, running without blacklist and distributed locks", zap.Error(err))
			rdb = nil
		}
	}

	locker := service.NewWorkerLocker(cfg.Tracking.LockTimeout)
	var (
		blacklist service.TokenBlacklist
		checker   middleware.TokenChecker
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		locker = service.NewDistributedWorkerLocker(locker, rdb, cfg.Tracking.LockTimeout, logger)
		blacklist = rdb
		checker = rdb
		limiter = rdb
	}

	// 5. Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc, err := service.NewService(cfg, repo, jwtMgr, locker, blacklist, logger)
	if err != nil {
		logger.Fatal("init services", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	engine := router.Setup(cfg, h, jwtMgr, checker, limiter, logger)

	// 6. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
