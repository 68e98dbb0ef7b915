// Package main is the entry point for the vending API.
// It loads the configuration, opens the store and cache, sets up the
// HTTP server and shuts it down gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vending/internal/config"
	"vending/internal/logger"
	"vending/internal/metrics"
	"vending/internal/middleware"
	"vending/internal/observability"
	"vending/internal/repositories"
	"vending/internal/repositories/cache"
	"vending/internal/repositories/memory"
	"vending/internal/routes"
	"vending/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, zl, observability.OtelConfig{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Env,
		SamplerRatio: cfg.OTelSamplerRatio,
	})
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, zl)
	if err != nil {
		return err
	}
	defer closeStore()

	productCache := openCache(ctx, cfg, zl)
	defer func() {
		if err := productCache.Close(); err != nil {
			zl.Warn("failed to close cache", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceName,
		DisableStartupMessage: config.IsProduction(),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE",
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RequestLogger(zl))
	app.Use(middleware.Metrics(collector))

	routes.SetupRoutes(app, routes.Dependencies{
		Store:          store,
		Cache:          productCache,
		Auth:           auth.Config{Secret: cfg.JWTSecret, TokenValidity: cfg.JWTTokenValidity},
		Metrics:        collector,
		Gatherer:       reg,
		LoginRateLimit: cfg.LoginRateLimit,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("http server listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down http server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return shutdownTracing(flushCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zl.Info("server stopped")
	return nil
}

// openStore returns the durable store selected by STORE_DRIVER.
func openStore(cfg config.Config, zl *zap.Logger) (repositories.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		zl.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	db, err := repositories.InitDB(cfg.DB, zl)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		sqlDB, err := db.DB()
		if err != nil {
			zl.Warn("failed to get database instance", zap.Error(err))
			return
		}
		if err := sqlDB.Close(); err != nil {
			zl.Warn("failed to close database connection", zap.Error(err))
		}
	}
	return repositories.NewStore(db), closeDB, nil
}

type closableCache interface {
	routes.ProductCache
	Close() error
}

// openCache connects to Redis when a host is configured. An unreachable
// Redis at startup disables caching instead of failing the server.
func openCache(ctx context.Context, cfg config.Config, zl *zap.Logger) closableCache {
	if !cfg.CacheEnabled() {
		zl.Info("redis not configured, product cache disabled")
		return cache.Noop{}
	}

	svc := cache.NewCacheService(cache.NewRedisClient(cfg.Redis), cfg.CacheTTL)
	if err := svc.HealthCheck(ctx); err != nil {
		zl.Warn("redis unreachable, product cache disabled", zap.Error(err))
		_ = svc.Close()
		return cache.Noop{}
	}
	zl.Info("redis connected", zap.String("host", cfg.Redis.Host))
	return svc
}
