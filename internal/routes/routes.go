// Package routes defines the API routing configuration.
// It builds the services, sets up all HTTP routes and their handlers,
// and applies the authentication and rate limiting middleware per route.
package routes

import (
	"context"
	"time"

	"vending/internal/handlers"
	"vending/internal/middleware"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/repositories/cache"
	"vending/internal/services/access"
	"vending/internal/services/auth"
	"vending/internal/services/machine"
	"vending/internal/services/product"
	"vending/internal/services/user"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProductCache is the read cache shared by the product and machine services.
type ProductCache interface {
	GetProduct(ctx context.Context, id uuid.UUID) (models.Product, bool, error)
	CacheProduct(ctx context.Context, product models.Product) error
	GetProductList(ctx context.Context) ([]models.Product, bool, error)
	CacheProductList(ctx context.Context, products []models.Product) error
	InvalidateProduct(ctx context.Context, id uuid.UUID) error
	HealthCheck(ctx context.Context) error
}

type Dependencies struct {
	Store repositories.Store
	Auth  auth.Config

	// Cache of nil disables product caching.
	Cache ProductCache

	// BcryptCost of zero uses bcrypt.DefaultCost.
	BcryptCost int

	// Metrics may be nil.
	Metrics machine.MetricsCollector

	// Gatherer exposes /metrics when set.
	Gatherer prometheus.Gatherer

	// LoginRateLimit is the number of login and register attempts allowed
	// per client IP per minute. Zero disables the limiter.
	LoginRateLimit int
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}

	authService := auth.NewService(deps.Store, deps.Auth)
	gate := access.NewGate(authService, deps.Store)

	authHandler := handlers.NewAuthHandler(authService, gate)
	userHandler := handlers.NewUserHandler(user.NewService(deps.Store, gate, user.Config{BcryptCost: deps.BcryptCost}))
	productHandler := handlers.NewProductHandler(product.NewService(deps.Store, gate, deps.Cache))
	machineHandler := handlers.NewMachineHandler(machine.NewService(deps.Store, gate, deps.Cache, deps.Metrics))
	healthHandler := handlers.NewHealthHandler(deps.Store, handlers.PingFunc(deps.Cache.HealthCheck))

	// Ops routes
	app.Get("/health", healthHandler.Check)
	if stats, ok := deps.Cache.(handlers.PoolStatsProvider); ok {
		app.Get("/health/cache", handlers.CacheStats(stats))
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Public routes
	throttle := loginLimiter(deps.LoginRateLimit)
	app.Post("/login", throttle, authHandler.Login)
	app.Post("/user", throttle, userHandler.Register)
	app.Get("/products", productHandler.List)
	app.Get("/products/:id", productHandler.Get)

	// Authenticated routes
	authed := middleware.BearerToken
	app.Post("/logout/all", authed, authHandler.LogoutAll)

	app.Get("/user/:id", authed, userHandler.Get)
	app.Put("/user/:id", authed, userHandler.Update)
	app.Put("/user/:id/password", authed, userHandler.ChangePassword)
	app.Delete("/user/:id", authed, userHandler.Delete)

	app.Post("/products", authed, productHandler.Create)
	app.Put("/products/:id", authed, productHandler.Update)
	app.Delete("/products/:id", authed, productHandler.Delete)

	app.Post("/deposit", authed, machineHandler.Deposit)
	app.Post("/buy", authed, machineHandler.Buy)
	app.Post("/reset", authed, machineHandler.Reset)
}

func loginLimiter(limit int) fiber.Handler {
	if limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		LimitReached: utils.TooManyRequests,
	})
}
